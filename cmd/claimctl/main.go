package main

import (
	"os"

	"github.com/turtacn/claimctl/cmd/cli"
)

// main is the entry point for the claimctl command-line tool.
// It delegates all execution to the cli package and exits with the code it returns.
// main 是 claimctl 命令行工具的入口点。
// 它将所有执行委托给 cli 包，并以其返回的状态码退出。
func main() {
	os.Exit(cli.Execute())
}
