package lib

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

const viewerSourceRoot = "resources/viewer/src"

//go:embed resources/viewer/src
var viewerSources embed.FS

// UIBuilder bundles the embedded TypeScript viewer with esbuild.
type UIBuilder struct {
	cache map[string]string
	mutex sync.RWMutex
}

func NewUIBuilder() *UIBuilder {
	return &UIBuilder{
		cache: make(map[string]string),
	}
}

// BuildViewerBundle compiles the viewer into a single IIFE with data injected
// as window.__SCENE_DATA__.
func (ub *UIBuilder) BuildViewerBundle(data interface{}) (string, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal viewer data: %w", err)
	}

	hash := sha256.Sum256(dataJSON)
	cacheKey := hex.EncodeToString(hash[:])

	ub.mutex.RLock()
	if cached, exists := ub.cache[cacheKey]; exists {
		ub.mutex.RUnlock()
		slog.Debug("Using cached viewer bundle", "cacheKey", cacheKey[:8])
		return cached, nil
	}
	ub.mutex.RUnlock()

	sourceFiles := make(map[string]string)
	if err := readViewerSources(viewerSourceRoot, sourceFiles); err != nil {
		return "", fmt.Errorf("failed to read viewer sources: %w", err)
	}

	indexContent, exists := sourceFiles["index.ts"]
	if !exists {
		return "", fmt.Errorf("index.ts not found in embedded sources (available: %v)", sortedKeys(sourceFiles))
	}
	sourceFiles["index.ts"] = fmt.Sprintf("window.__SCENE_DATA__ = %s;\n%s", dataJSON, indexContent)

	result := api.Build(api.BuildOptions{
		Bundle:            true,
		Write:             false,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Format:            api.FormatIIFE,
		Target:            api.ES2017,
		Platform:          api.PlatformBrowser,
		EntryPoints:       []string{"virtual:index.ts"},
		Plugins:           []api.Plugin{virtualFSPlugin(sourceFiles)},
	})

	if len(result.Errors) > 0 {
		var messages []string
		for _, msg := range result.Errors {
			messages = append(messages, msg.Text)
		}
		return "", fmt.Errorf("esbuild errors: %s", strings.Join(messages, "; "))
	}
	if len(result.OutputFiles) == 0 {
		return "", fmt.Errorf("no output files generated")
	}

	bundle := string(result.OutputFiles[0].Contents)

	ub.mutex.Lock()
	ub.cache[cacheKey] = bundle
	ub.mutex.Unlock()

	slog.Debug("Built viewer bundle", "cacheKey", cacheKey[:8], "bundleSize", len(bundle))
	return bundle, nil
}

// virtualFSPlugin serves the embedded sources; relative imports resolve
// against the importer's directory with an implicit .ts extension.
func virtualFSPlugin(sourceFiles map[string]string) api.Plugin {
	return api.Plugin{
		Name: "virtual-fs",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^virtual:`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return api.OnResolveResult{
						Path:      strings.TrimPrefix(args.Path, "virtual:"),
						Namespace: "virtual",
					}, nil
				})

			build.OnResolve(api.OnResolveOptions{Filter: `^\.`, Namespace: "virtual"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					resolved := path.Join(path.Dir(args.Importer), args.Path)
					for _, candidate := range []string{resolved, resolved + ".ts"} {
						if _, exists := sourceFiles[candidate]; exists {
							return api.OnResolveResult{Path: candidate, Namespace: "virtual"}, nil
						}
					}
					return api.OnResolveResult{}, fmt.Errorf("virtual file not found: %s from %s", args.Path, args.Importer)
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: "virtual"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					content, exists := sourceFiles[args.Path]
					if !exists {
						return api.OnLoadResult{}, fmt.Errorf("virtual file not found: %s", args.Path)
					}
					return api.OnLoadResult{
						Contents: &content,
						Loader:   api.LoaderTS,
					}, nil
				})
		},
	}
}

func readViewerSources(basePath string, files map[string]string) error {
	entries, err := viewerSources.ReadDir(basePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fullPath := basePath + "/" + entry.Name()
		if entry.IsDir() {
			if err := readViewerSources(fullPath, files); err != nil {
				return err
			}
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".ts") {
			continue
		}
		content, err := viewerSources.ReadFile(fullPath)
		if err != nil {
			return err
		}
		files[strings.TrimPrefix(fullPath, viewerSourceRoot+"/")] = string(content)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
