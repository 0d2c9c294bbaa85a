package main

import (
	"fmt"
	"io"
	"os"

	"storefront_back_end/internal/config"
)

const usage = `usage: catalog <commande> [options]

commandes :
  generate        scanne les images et écrit products.json
  verify          vérifie que les images du catalogue existent
  seed-overrides  complète la table de prix avec les images sans entrée
  index           indexe le catalogue dans Elasticsearch
  publish         envoie images et catalogue dans le bucket MinIO
  token           génère un token admin (ADMIN_JWT_SECRET)
`

func main() {
	config.Load()
	os.Exit(run(os.Args[1:], config.FromEnv(), os.Stdout, os.Stderr))
}

type command func(args []string, cfg config.Config, stdout io.Writer) error

var commands = map[string]command{
	"generate":       runGenerate,
	"verify":         runVerify,
	"seed-overrides": runSeed,
	"index":          runIndex,
	"publish":        runPublish,
	"token":          runToken,
}

func run(args []string, cfg config.Config, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "commande inconnue %q\n\n%s", args[0], usage)
		return 2
	}
	if err := cmd(args[1:], cfg, stdout); err != nil {
		fmt.Fprintf(stderr, "❌ %s : %v\n", args[0], err)
		return 1
	}
	return 0
}
