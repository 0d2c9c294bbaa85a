package catalog

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Entry est un fichier image trouvé dans un dossier de catégorie.
type Entry struct {
	Folder string
	File   string
}

// Source énumère les images d'un catalogue (un niveau de dossiers, un niveau
// de fichiers).
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// DirSource lit une arborescence locale <Root>/<dossier>/<fichier>.
// Une racine absente, qui n'est pas un dossier ou illisible donne un
// catalogue vide.
type DirSource struct {
	Root string
}

func (s DirSource) Entries(ctx context.Context) ([]Entry, error) {
	info, err := os.Stat(s.Root)
	if err != nil || !info.IsDir() {
		log.Printf("⚠️ Dossier d'images introuvable : %s", s.Root)
		return nil, nil
	}

	dirs, err := os.ReadDir(s.Root)
	if err != nil {
		log.Printf("⚠️ Lecture du dossier d'images impossible (%s) : %v", s.Root, err)
		return nil, nil
	}

	var entries []Entry
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isIgnored(d.Name()) || !isDir(s.Root, d) {
			continue
		}

		files, err := os.ReadDir(filepath.Join(s.Root, d.Name()))
		if err != nil {
			log.Printf("⚠️ Dossier %s ignoré : %v", d.Name(), err)
			continue
		}
		for _, f := range files {
			if f.IsDir() || isIgnored(f.Name()) || !IsImageFile(f.Name()) {
				continue
			}
			entries = append(entries, Entry{Folder: d.Name(), File: f.Name()})
		}
	}
	return entries, nil
}

// isDir suit les liens symboliques, comme fs.statSync côté storefront.
func isDir(root string, d os.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	info, err := os.Stat(filepath.Join(root, d.Name()))
	return err == nil && info.IsDir()
}

// BucketSource lit les objets <Prefix><dossier>/<fichier> d'un bucket MinIO.
type BucketSource struct {
	Client *minio.Client
	Bucket string
	Prefix string
}

func (s BucketSource) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	objects := s.Client.ListObjects(ctx, s.Bucket, minio.ListObjectsOptions{
		Prefix:    s.Prefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if e, ok := splitObjectKey(s.Prefix, obj.Key); ok {
			entries = append(entries, e)
		}
	}
	sortEntries(entries)
	return entries, nil
}

// splitObjectKey découpe une clé d'objet en dossier / fichier. Les objets
// plus profonds ou directement sous le préfixe sont ignorés.
func splitObjectKey(prefix, key string) (Entry, bool) {
	rest := strings.TrimPrefix(key, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Entry{}, false
	}
	if isIgnored(parts[0]) || isIgnored(parts[1]) || !IsImageFile(parts[1]) {
		return Entry{}, false
	}
	return Entry{Folder: parts[0], File: parts[1]}, true
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Folder != entries[j].Folder {
			return entries[i].Folder < entries[j].Folder
		}
		return entries[i].File < entries[j].File
	})
}
