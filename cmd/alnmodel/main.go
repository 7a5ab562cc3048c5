// cmd/alnmodel/main.go
package main

import (
	"alnmodel/internal/app"
	"alnmodel/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
