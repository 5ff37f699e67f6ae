// Package table 提供堂食桌台二维码服务
package table

import (
	"fmt"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/qrcode"
)

// QRService 桌台二维码服务
// 二维码指向公开菜单并携带桌号，顾客扫码后直接在该桌台下单
type QRService struct {
	qrGen   *qrcode.Generator
	baseURL string
}

// NewQRService 创建桌台二维码服务
func NewQRService(baseURL string) *QRService {
	return &QRService{
		qrGen:   qrcode.NewGenerator(qrcode.WithSize(300), qrcode.WithRecoveryLevel(qrcode.High)),
		baseURL: baseURL,
	}
}

// TableQRInfo 桌台二维码信息
type TableQRInfo struct {
	TableNumber int    `json:"table_number"`
	MenuURL     string `json:"menu_url"`
	DataURL     string `json:"data_url"`
}

// menuURL 桌台菜单地址
func (s *QRService) menuURL(tableNumber int) string {
	return fmt.Sprintf("%s/menu?table=%d", s.baseURL, tableNumber)
}

// GenerateQRCode 生成桌台二维码（Data URL 格式）
func (s *QRService) GenerateQRCode(tableNumber int) (*TableQRInfo, error) {
	if tableNumber <= 0 {
		return nil, apperrors.ErrTableInvalid
	}

	menuURL := s.menuURL(tableNumber)
	dataURL, err := s.qrGen.GenerateDataURL(menuURL)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	return &TableQRInfo{
		TableNumber: tableNumber,
		MenuURL:     menuURL,
		DataURL:     dataURL,
	}, nil
}

// GetQRCodeImage 生成桌台二维码 PNG 图片
func (s *QRService) GetQRCodeImage(tableNumber int) ([]byte, error) {
	if tableNumber <= 0 {
		return nil, apperrors.ErrTableInvalid
	}
	return s.qrGen.GeneratePNG(s.menuURL(tableNumber))
}
