// Package geocode 地理编码客户端
//
// 通过后端代理调用 Google Maps Geocoding API：API 密钥不暴露给
// 前端，并统一附加城市/国家/语言偏置以提高乌克兰地址的命中率。
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GeocodingURL Google Geocoding API 地址
const GeocodingURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Result 地理编码结果
type Result struct {
	Lat float64
	Lng float64
}

// Geocoder 地址 → 坐标解析接口
// 失败（网络错误、无结果、未配置密钥）统一返回 (nil, error)
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Config Google 地理编码配置
type Config struct {
	APIKey   string
	Locality string // 城市偏置，如 "Івано-Франківськ"
	Region   string // 区域偏置，如 "ua"
	Language string // 响应语言，如 "uk"
	Timeout  time.Duration
}

// GoogleGeocoder Google Maps 地理编码客户端
type GoogleGeocoder struct {
	cfg    Config
	client *http.Client
}

// NewGoogleGeocoder 创建 Google 地理编码客户端
func NewGoogleGeocoder(cfg Config) *GoogleGeocoder {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &GoogleGeocoder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// geocodeResponse Google API 响应结构（仅解析所需字段）
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode 解析地址为坐标
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if g.cfg.APIKey == "" {
		return nil, fmt.Errorf("geocode: api key not configured")
	}

	params := url.Values{}
	params.Set("address", fmt.Sprintf("%s, %s, Україна", address, g.cfg.Locality))
	params.Set("key", g.cfg.APIKey)
	params.Set("language", g.cfg.Language)
	params.Set("region", g.cfg.Region)
	params.Set("components", fmt.Sprintf("country:UA|locality:%s", g.cfg.Locality))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, GeocodingURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		return nil, fmt.Errorf("geocode: no results (status %s)", data.Status)
	}

	loc := data.Results[0].Geometry.Location
	return &Result{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// MockGeocoder 模拟地理编码器（用于开发/测试）
type MockGeocoder struct {
	// Addresses 地址 → 坐标映射；未命中的地址返回错误
	Addresses map[string]Result
}

// NewMockGeocoder 创建模拟地理编码器
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{Addresses: make(map[string]Result)}
}

// Geocode 从映射中查找地址
func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if r, ok := m.Addresses[address]; ok {
		return &r, nil
	}
	return nil, fmt.Errorf("geocode: address not found: %s", address)
}
