package catalogue

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type fileDecl struct {
	Tiles []*tileDecl `@@*`
}

type tileDecl struct {
	Pos     lexer.Position
	Name    string       `"tile" @(Ident | String | Int)`
	Count   string       `( "count" @Int )?`
	Image   string       `( "image" @String )?`
	Entries []*entryDecl `"{" @@* "}"`
}

type entryDecl struct {
	Monastery bool           `  @"monastery"`
	Structure *structureDecl `| @@`
}

type structureDecl struct {
	Pos     lexer.Position
	Terrain string   `@("town" | "road" | "field")`
	Label   string   `@String?`
	Sides   []string `@("left" | "top" | "right" | "bottom")+`
	Value   int      `( "value" @Int )?`
}

var tileLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][\w-]*`},
	{Name: "Punct", Pattern: `[{}]`},
})

var parser = participle.MustBuild[fileDecl](
	participle.Lexer(tileLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)
