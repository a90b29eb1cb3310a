package localization

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/raiseyourvoice/backend/errors"
	"go.vocdoni.io/dvote/log"
	"gopkg.in/yaml.v3"
)

// LocalesDir is the directory of the embedded seed files. Each file is named
// after its language, like en.yaml.
const LocalesDir = "assets/locales"

// ImportDefaults loads the seed files of the supported languages found in
// LocalesDir of fsys. Keys that already exist are left untouched. It returns
// the number of inserted keys.
func (s *Service) ImportDefaults(ctx context.Context, fsys fs.FS) (int, error) {
	files, err := fs.Glob(fsys, path.Join(LocalesDir, "*.yaml"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, file := range files {
		lang := strings.TrimSuffix(path.Base(file), ".yaml")
		if !s.IsSupported(lang) {
			log.Debugw("skipping locale file of unsupported language", "file", file)
			continue
		}
		f, err := fsys.Open(file)
		if err != nil {
			return total, err
		}
		n, err := s.Import(ctx, lang, f, false)
		_ = f.Close()
		if err != nil {
			return total, fmt.Errorf("could not import %s: %w", file, err)
		}
		total += n
	}
	log.Infow("default localizations imported", "files", len(files), "inserted", total)
	return total, nil
}

// Import loads a YAML document of the language. Nested mappings are
// flattened into dot separated keys. With overwrite unset, existing keys are
// kept. It returns the number of written keys.
func (s *Service) Import(ctx context.Context, lang string, r io.Reader, overwrite bool) (int, error) {
	lang, err := s.checkLanguage(lang)
	if err != nil {
		return 0, err
	}
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return 0, errors.ErrInvalidData.WithErr(err)
	}
	values := map[string]string{}
	if err := flatten("", doc, values); err != nil {
		return 0, errors.ErrInvalidData.WithErr(err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := 0
	for _, raw := range keys {
		value := values[raw]
		key := normalizeKey(raw)
		if key == "" {
			continue
		}
		if overwrite {
			if err := s.SetString(ctx, key, lang, value); err != nil {
				return written, err
			}
			written++
			continue
		}
		inserted, err := s.db.InsertLocalizedStringIfMissing(ctx, key, lang, value)
		if err != nil {
			return written, errors.ErrGenericInternalServerError.WithErr(err)
		}
		if inserted {
			s.invalidate(ctx, key, lang)
			written++
		}
	}
	return written, nil
}

// flatten walks the decoded YAML document collecting the scalar values.
func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch value := v.(type) {
		case map[string]any:
			if err := flatten(key, value, out); err != nil {
				return err
			}
		case string:
			out[key] = value
		case int, int64, float64, bool:
			out[key] = fmt.Sprint(value)
		case nil:
			out[key] = ""
		default:
			return fmt.Errorf("unsupported value for key %s", key)
		}
	}
	return nil
}
