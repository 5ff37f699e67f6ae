// Package handler 按领域划分 HTTP 处理器：catalog、order、delivery、
// marketing、customer、storefront 各自为子包。
//
// 本文件让 `swag init --dir ./internal/handler` 能把该目录当作有效的
// Go 包扫描注解。
package handler
