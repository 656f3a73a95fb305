// Package main 启动应用程序
package main

import (
	"os"

	"github.com/yeisme/hazopvault/pkg/cmd"
)

//	@title			hazopvault API
//	@version		0.1.0
//	@description	上传 P&ID 图纸，识别元件与安全问题，生成并管理 HAZOP PDF 报告。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		// cobra 已输出错误信息
		os.Exit(1)
	}
}
