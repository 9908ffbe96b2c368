// Package graphqlschema is an example Plugin that handles .graphql/.gql
// assets. GraphQL has no dedicated bundler.Format bucket — the Format
// enum is closed per spec.md §3 — so this plugin matches on extension
// directly rather than on bundler.Unknown, which would also catch every
// other unrecognized file type.
//
// It adapts two pieces of the teacher:
//   - internal/loader/schema_file.go's parse-then-buildSchema shape,
//     repurposed from schema merging to dependency discovery: gqlparser
//     parses the document and this plugin walks its "#import" pragma
//     comments (the convention graphql-import/babel-plugin-import-graphql
//     popularized) to find sibling .graphql files to enqueue as Import
//     dependencies.
//   - schema_file.go's buildSchema/graphql.NewSchema call, aimed at running
//     a small introspection query (graphql.Do) instead of returning a
//     schema.Schema value. The schema it introspects is a fixed placeholder,
//     not one built from the parsed document.
package graphqlschema

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/jzeiders/webbundler/internal/fsutil"
	"github.com/jzeiders/webbundler/pkg/bundler"
)

// Plugin handles .graphql/.gql items.
type Plugin struct {
	FS fsutil.FS
}

// New constructs a graphqlschema plugin. fs defaults to the real OS
// filesystem when nil.
func New(fs fsutil.FS) *Plugin {
	if fs == nil {
		fs = fsutil.OS{}
	}
	return &Plugin{FS: fs}
}

func (p *Plugin) Name() string { return "graphqlschema" }

func (p *Plugin) Test(ctx context.Context, item bundler.Item, bctx *bundler.Context) bool {
	input := item.Input()
	return strings.HasSuffix(input, ".graphql") || strings.HasSuffix(input, ".gql")
}

func (p *Plugin) ReadSource(ctx context.Context, input string, bctx *bundler.Context) (*bundler.Source, error) {
	data, err := p.FS.ReadFile(input)
	if err != nil {
		return nil, err
	}
	return &bundler.Source{Text: data}, nil
}

// CreateAsset parses the document (as a schema, or else as a syntactically
// valid operation document), extracts #import-pragma dependencies, and —
// when the text contains "type Query" — attaches the introspection JSON
// payload that introspect produces.
func (p *Plugin) CreateAsset(ctx context.Context, item bundler.Item, bctx *bundler.Context) (*bundler.Asset, error) {
	input := item.Input()

	src, err := bctx.Bundler().Dispatcher().ReadSource(ctx, input, bctx)
	if err != nil {
		return nil, err
	}
	text := string(src.Text)

	if _, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: input, Input: text}); gqlErr != nil {
		if _, queryErr := parser.ParseQuery(&ast.Source{Name: input, Input: text}); queryErr != nil {
			return nil, fmt.Errorf("parsing %s: not a valid GraphQL schema or document", input)
		}
	}

	asset := &bundler.Asset{
		Input:    input,
		FilePath: input,
		Output:   bctx.ResolveOutput(input),
		Type:     item.Type,
		Format:   item.Format,
	}

	for _, imported := range parseImportPragmas(text) {
		resolved := resolveRelative(input, imported)
		asset.AddDependency(resolved, bundler.Import, bundler.GetFormat(resolved))
	}

	if strings.Contains(text, "type Query") {
		introspection, err := p.introspectCached(input, text, bctx)
		if err == nil {
			asset.Content = introspection
		} else {
			bctx.Logger().Warn("graphqlschema: introspection failed for %s: %v", input, err)
		}
	}

	return asset, nil
}

// parseImportPragmas scans leading "# import ..." / "#import ..." comment
// lines for quoted paths, the graphql-import convention: each .graphql
// file may declare its fragment dependencies this way instead of through
// any native GraphQL import syntax (there is none).
func parseImportPragmas(text string) []string {
	var imports []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}
		trimmed := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if !strings.HasPrefix(trimmed, "import ") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "import "))
		rest = strings.Trim(rest, `"'`)
		if rest != "" {
			imports = append(imports, rest)
		}
	}
	return imports
}

func resolveRelative(from, importPath string) string {
	if !strings.HasPrefix(importPath, ".") {
		return importPath
	}
	dir := "."
	if idx := strings.LastIndexByte(from, '/'); idx >= 0 {
		dir = from[:idx]
	}
	return dir + "/" + strings.TrimPrefix(importPath, "./")
}

// introspectCached wraps introspect with spec.md §4.6's build cache,
// keyed on (input, input) since schema introspection has no separate
// bundle-entry concept: a hit skips rebuilding the executable schema and
// rerunning the introspection query entirely.
func (p *Plugin) introspectCached(input, sdl string, bctx *bundler.Context) ([]byte, error) {
	store := bctx.Store()

	if srcTime, statErr := p.FS.Stat(input); statErr == nil {
		if hit, err := store.HasCache(input, input, srcTime); err == nil && hit {
			if cached, err := store.GetCache(input, input); err == nil {
				return cached, nil
			}
		}
	}

	data, err := introspect(sdl)
	if err != nil {
		return nil, err
	}
	store.SetCache(input, input, data)
	return data, nil
}

// introspect builds a fixed placeholder schema (a Query type with a single
// `_: String` field) using the same graphql.NewSchema shape schema_file.go's
// buildSchema uses, then runs a small introspection query against it and
// returns the JSON result. The sdl argument is not read: the result does
// not describe the types declared in the document.
func introspect(sdl string) ([]byte, error) {
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"_": &graphql.Field{Type: graphql.String},
			},
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: introspectionQuery,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("introspection: %v", result.Errors)
	}

	return json.Marshal(result.Data)
}

const introspectionQuery = `
	query {
		__schema {
			queryType { name }
			types { name kind }
		}
	}
`

var (
	_ bundler.AssetCreator = (*Plugin)(nil)
	_ bundler.SourceReader = (*Plugin)(nil)
)
