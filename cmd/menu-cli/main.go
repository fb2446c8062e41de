package main

import (
	"context"

	"bruinmenu/cmd/menu-cli/commands"
	"bruinmenu/lib/osutil"
	"bruinmenu/lib/serviceutil"
)

func main() {
	ctx, cancel := osutil.SignalContext(context.Background())
	err := commands.ExecuteContext(ctx)
	cancel()
	if err != nil {
		serviceutil.Fatal("menu-cli failed", err)
	}
}
