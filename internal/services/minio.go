package services

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"storefront_back_end/internal/catalog"
)

// PublishCatalog envoie le catalogue généré dans le bucket et retourne l'URL
// de l'objet.
func PublishCatalog(ctx context.Context, client *minio.Client, bucket, key string, data []byte) (string, error) {
	if client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}
	_, err := client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/json",
		CacheControl: "no-cache",
	})
	if err != nil {
		return "", fmt.Errorf("envoi %s: %w", key, err)
	}
	return objectURL(client, bucket, key), nil
}

// UploadImages copie <imagesDir>/<dossier>/<fichier> vers <prefix><dossier>/<fichier>.
// Seules les images reconnues par le générateur sont envoyées.
func UploadImages(ctx context.Context, client *minio.Client, bucket, prefix, imagesDir string) (int, error) {
	if client == nil {
		return 0, fmt.Errorf("MinIO non initialisé")
	}

	uploaded := 0
	err := filepath.WalkDir(imagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(imagesDir, p)
		if err != nil {
			return err
		}
		key, ok := ObjectKey(prefix, filepath.ToSlash(rel))
		if !ok {
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		_, err = client.PutObject(ctx, bucket, key, f, info.Size(), minio.PutObjectOptions{
			ContentType: mime.TypeByExtension(strings.ToLower(path.Ext(key))),
		})
		if err != nil {
			return fmt.Errorf("envoi %s: %w", key, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	log.Printf("🪣 %d images envoyées dans %s/%s", uploaded, bucket, prefix)
	return uploaded, nil
}

// ObjectKey retourne la clé d'objet d'une image "dossier/fichier", ou false
// si le fichier ne serait pas lu par le générateur.
func ObjectKey(prefix, rel string) (string, bool) {
	parts := strings.Split(rel, "/")
	if len(parts) != 2 || parts[0] == "" || strings.HasPrefix(parts[0], ".") || strings.HasPrefix(parts[1], ".") {
		return "", false
	}
	if !catalog.IsImageFile(parts[1]) {
		return "", false
	}
	return prefix + rel, true
}

func objectURL(client *minio.Client, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", client.EndpointURL(), bucket, key)
}
