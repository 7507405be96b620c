// Command gitpulse summarizes Git history for the repository at hand.
package main

import (
	"os"

	"github.com/huangsam/gitpulse/cmd"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()

	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to write profiles", perr)
	}
	if err != nil {
		contract.Logger.Error(err)
		os.Exit(1)
	}
}
