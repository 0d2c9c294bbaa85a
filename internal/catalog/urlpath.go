package catalog

import (
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodeComponent encode un segment de chemin comme le fait le navigateur
// avec encodeURIComponent : seuls A-Z a-z 0-9 et -_.!~*'() restent tels quels.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// ImagePath construit le chemin public d'une image : /images/<dossier>/<fichier encodé>.
func ImagePath(folder, file string) string {
	return "/images/" + folder + "/" + EncodeComponent(file)
}

// LookupKeys retourne les clés à essayer dans la table d'overrides pour un
// chemin d'image venant du client : chemin tel quel avec "/" initial, chemin
// d'une URL absolue, puis forme décodée / ré-encodée du nom de fichier.
func LookupKeys(image string) []string {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		if u, err := url.Parse(image); err == nil {
			image = u.EscapedPath()
		}
	}
	if !strings.HasPrefix(image, "/") {
		image = "/" + image
	}

	keys := []string{image}
	add := func(k string) {
		for _, existing := range keys {
			if existing == k {
				return
			}
		}
		keys = append(keys, k)
	}

	dir, file := image[:strings.LastIndexByte(image, '/')+1], image[strings.LastIndexByte(image, '/')+1:]
	if decoded, err := url.PathUnescape(file); err == nil {
		add(dir + decoded)
		add(dir + EncodeComponent(decoded))
	}
	return keys
}
