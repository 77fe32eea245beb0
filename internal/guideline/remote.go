package guideline

import (
	"context"
	"mime"
	"net/url"
	"path"

	"github.com/jonathan/tonecycle/internal/fetch"
)

// Open loads a guide from a local path or an http(s) URL
func Open(ctx context.Context, location string) (map[string]any, error) {
	if !fetch.IsRemote(location) {
		return Load(location)
	}
	return Fetch(ctx, location, nil)
}

// Fetch downloads a guide. The decoder is picked from the URL's extension, then
// from the Content-Type; anything else is tried as JSON before YAML.
func Fetch(ctx context.Context, location string, opts *fetch.Options) (map[string]any, error) {
	result, err := fetch.URL(ctx, location, opts)
	if err != nil {
		return nil, &LoadError{Path: location, Message: "failed to fetch guide", Cause: err}
	}
	return Decode(result.Body, remoteExt(location, result.ContentType))
}

func remoteExt(location, contentType string) string {
	if u, err := url.Parse(location); err == nil {
		switch ext := path.Ext(u.Path); ext {
		case ".json", ".yaml", ".yml":
			return ext
		}
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return ".yaml"
	}
	return ".json"
}
