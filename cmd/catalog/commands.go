package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

const maxMissingShown = 50

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGenerate(args []string, cfg config.Config, stdout io.Writer) error {
	fs := newFlagSet("generate")
	images := fs.String("images", cfg.Catalog.ImagesDir, "dossier des images")
	out := fs.String("out", cfg.Catalog.OutputFile, "fichier catalogue")
	overridesFile := fs.String("overrides", cfg.Catalog.OverridesFile, "table d'overrides")
	fromBucket := fs.Bool("bucket", false, "lire les images dans le bucket MinIO")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	overrides, err := catalog.LoadOverrides(*overridesFile)
	if err != nil {
		fmt.Fprintf(stdout, "⚠️ %v : prix par défaut des catégories\n", err)
	}

	var src catalog.Source = catalog.DirSource{Root: *images}
	if *fromBucket {
		client, err := database.ConnectMinIO(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
		if client == nil {
			return errors.New("MINIO_ENDPOINT non défini")
		}
		src = catalog.BucketSource{Client: client, Bucket: cfg.MinIO.Bucket, Prefix: cfg.MinIO.Prefix}
	}

	c, err := catalog.Generate(ctx, src, overrides)
	if err != nil {
		return err
	}
	if err := catalog.WriteFile(*out, c); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✅ %d produits écrits dans %s\n", len(c.Items), *out)
	return nil
}

func runVerify(args []string, cfg config.Config, stdout io.Writer) error {
	fs := newFlagSet("verify")
	file := fs.String("catalog", cfg.Catalog.OutputFile, "fichier catalogue")
	public := fs.String("public", cfg.Catalog.PublicDir, "racine publique")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := catalog.ReadFile(*file)
	if err != nil {
		return err
	}

	report := catalog.Verify(c, *public)
	fmt.Fprintf(stdout, "%d produits\n", report.Products)
	for _, cc := range report.Categories {
		fmt.Fprintf(stdout, "  %-22s %d\n", cc.Category, cc.Count)
	}
	if len(report.Missing) == 0 {
		fmt.Fprintln(stdout, "✅ Toutes les images existent")
		return nil
	}

	fmt.Fprintf(stdout, "⚠️ %d images manquantes\n", len(report.Missing))
	for i, m := range report.Missing {
		if i == maxMissingShown {
			fmt.Fprintf(stdout, "  … et %d autres\n", len(report.Missing)-maxMissingShown)
			break
		}
		fmt.Fprintf(stdout, "  %s [%s] %s\n", m.Title, m.Category, m.Image)
	}
	return nil
}

func runSeed(args []string, cfg config.Config, stdout io.Writer) error {
	fs := newFlagSet("seed-overrides")
	images := fs.String("images", cfg.Catalog.ImagesDir, "dossier des images")
	out := fs.String("out", cfg.Catalog.OverridesFile, "table d'overrides")
	if err := fs.Parse(args); err != nil {
		return err
	}

	added, total, err := catalog.SeedFile(*images, *out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✅ %d entrées ajoutées (%d au total) dans %s\n", added, total, *out)
	return nil
}

func runIndex(args []string, cfg config.Config, stdout io.Writer) error {
	fs := newFlagSet("index")
	file := fs.String("catalog", cfg.Catalog.OutputFile, "fichier catalogue")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := catalog.ReadFile(*file)
	if err != nil {
		return err
	}
	es, err := database.ConnectElastic(cfg.Elastic)
	if err != nil {
		return err
	}
	if es == nil {
		return errors.New("ELASTIC_URL non défini")
	}

	ctx, cancel := commandContext()
	defer cancel()

	n, err := services.NewProductIndex(es, cfg.Elastic.Index).IndexCatalog(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✅ %d produits indexés dans %s\n", n, cfg.Elastic.Index)
	return nil
}

func runPublish(args []string, cfg config.Config, stdout io.Writer) error {
	fs := newFlagSet("publish")
	file := fs.String("catalog", cfg.Catalog.OutputFile, "fichier catalogue")
	key := fs.String("key", "products.json", "clé de l'objet catalogue")
	images := fs.String("images", cfg.Catalog.ImagesDir, "dossier des images (vide pour ne pas les envoyer)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := catalog.ReadFile(*file)
	if err != nil {
		return err
	}
	data, err := catalog.Marshal(c)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	client, err := database.ConnectMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}
	if client == nil {
		return errors.New("MINIO_ENDPOINT non défini")
	}

	if *images != "" {
		n, err := services.UploadImages(ctx, client, cfg.MinIO.Bucket, cfg.MinIO.Prefix, *images)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "📤 %d images envoyées\n", n)
	}

	url, err := services.PublishCatalog(ctx, client, cfg.MinIO.Bucket, *key, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✅ Catalogue publié : %s\n", url)
	return nil
}

func runToken(args []string, cfg config.Config, stdout io.Writer) error {
	fs := newFlagSet("token")
	sub := fs.String("sub", "admin", "sujet du token")
	ttl := fs.Duration("ttl", 24*time.Hour, "durée de validité")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := utils.GenerateAdminJWT(cfg.AdminJWTSecret, *sub, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}
