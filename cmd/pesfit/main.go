// Command pesfit fits multi-peak lineshapes to photoemission band mapping
// data.
//
// Usage:
//
//	pesfit fit --config run.yaml [--parallel] [--workers N] [--nspec N] [--out file]
//	pesfit models
//	pesfit report --results fitres.db [--spec-id N]
//	pesfit plot --config run.yaml --spec-id N --out fit.png
//	pesfit bandpath --data cut.json --key paths --symbols G,M,K,G --indices 0,30,60,89 --out path.png
//	pesfit metrics --truth truth.json --nband 2 --var center a.db b.db
package main

import (
	"os"

	"github.com/cwbudde/algo-pesfit/cmd/pesfit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
