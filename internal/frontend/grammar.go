package frontend

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar covers the declaration level of Java: packages, imports,
// top-level classes and interfaces and their member signatures. Method
// bodies, field initializers and annotation arguments are consumed as
// balanced token runs and otherwise ignored.

// File is a parsed compilation unit.
type File struct {
	Package *QualifiedName `parser:"( 'package' @@ ';' )?"`
	Imports []*Import      `parser:"@@*"`
	Types   []*TypeDecl    `parser:"( @@ | ';' )*"`
}

// QualifiedName is a dotted name.
type QualifiedName struct {
	Parts []string `parser:"@Ident ( '.' @Ident )*"`
}

// Import is a single-type or on-demand import. On-demand imports end
// with a "*" part.
type Import struct {
	Pos    lexer.Position
	Static bool     `parser:"'import' @'static'?"`
	Parts  []string `parser:"@Ident ( '.' ( @Ident | @'*' ) )* ';'"`
}

// TypeDecl is a top-level class or interface.
type TypeDecl struct {
	Pos        lexer.Position
	Prefix     []*Modifier  `parser:"@@*"`
	Kind       string       `parser:"@( 'class' | 'interface' )"`
	Name       string       `parser:"@Ident"`
	TypeParams []*TypeParam `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Extends    []*Type      `parser:"( 'extends' @@ ( ',' @@ )* )?"`
	Implements []*Type      `parser:"( 'implements' @@ ( ',' @@ )* )?"`
	Members    []*Member    `parser:"'{' @@* '}'"`
}

// Modifier is either an annotation or a modifier keyword.
type Modifier struct {
	Annotation *Annotation `parser:"  @@"`
	Keyword    string      `parser:"| @( 'public' | 'protected' | 'private' | 'abstract' | 'final' | 'static' | 'default' | 'native' | 'synchronized' | 'strictfp' | 'transient' | 'volatile' )"`
}

type Annotation struct {
	Pos  lexer.Position
	Name *QualifiedName `parser:"'@' @@"`
	Args *Parens        `parser:"@@?"`
}

type TypeParam struct {
	Pos    lexer.Position
	Name   string  `parser:"@Ident"`
	Bounds []*Type `parser:"( 'extends' @@ ( '&' @@ )* )?"`
}

// Type is a type use.
type Type struct {
	Pos         lexer.Position
	Annotations []*Annotation `parser:"@@*"`
	Name        *QualifiedName `parser:"@@"`
	Args        []*TypeArg     `parser:"( '<' ( @@ ( ',' @@ )* )? '>' )?"`
	Dims        []string       `parser:"( @'[' ']' )*"`
}

// TypeArg is a type argument, possibly a wildcard.
type TypeArg struct {
	Wildcard bool  `parser:"(  @'?'"`
	Extends  *Type `parser:"   ( 'extends' @@"`
	Super    *Type `parser:"   | 'super' @@ )? )"`
	Type     *Type `parser:"| @@"`
}

// Member is a class or interface body declaration.
type Member struct {
	Pos    lexer.Position
	Prefix []*Modifier  `parser:"@@*"`
	Init   *Block       `parser:"(  @@"`
	Empty  bool         `parser:" | @';'"`
	Nested *TypeDecl    `parser:" | @@"`
	Decl   *MemberDecl  `parser:" | @@ )"`
}

// MemberDecl is a method, field or constructor. Constructors have no
// name: the type they start with is the class name.
type MemberDecl struct {
	TypeParams []*TypeParam `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Type       *Type        `parser:"@@"`
	Name       string       `parser:"( ( @Ident"`
	Method     *MethodRest  `parser:"    ( @@"`
	Field      *FieldRest   `parser:"    | @@ ) )"`
	Ctor       *MethodRest  `parser:"  | @@ )"`
}

type MethodRest struct {
	Params   []*Param `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
	Dims     []string `parser:"( @'[' ']' )*"`
	Throws   []*Type  `parser:"( 'throws' @@ ( ',' @@ )* )?"`
	Body     *Block   `parser:"( @@"`
	Abstract bool     `parser:"| @';' )"`
}

type Param struct {
	Pos     lexer.Position
	Prefix  []*Modifier `parser:"@@*"`
	Type    *Type       `parser:"@@"`
	Varargs bool        `parser:"@'...'?"`
	Name    string      `parser:"@Ident"`
	Dims    []string    `parser:"( @'[' ']' )*"`
}

type FieldRest struct {
	Items []*FieldItem `parser:"@@* ';'"`
}

type FieldItem struct {
	Block  *Block  `parser:"  @@"`
	Parens *Parens `parser:"| @@"`
	Token  string  `parser:"| @~( ';' | '{' | '}' | '(' | ')' )"`
}

// Block is a balanced brace run.
type Block struct {
	Items []*BlockItem `parser:"'{' @@* '}'"`
}

type BlockItem struct {
	Nested *Block `parser:"  @@"`
	Token  string `parser:"| @~( '{' | '}' )"`
}

// Parens is a balanced parenthesis run.
type Parens struct {
	Items []*ParenItem `parser:"'(' @@* ')'"`
}

type ParenItem struct {
	Nested *Parens `parser:"  @@"`
	Token  string  `parser:"| @~( '(' | ')' )"`
}

var javaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_.]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Punct", Pattern: `[-+*/%&|^!~?:=<>;,.@(){}\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var fileParser = participle.MustBuild[File](
	participle.Lexer(javaLexer),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.UseLookahead(4),
)

// Parse parses one compilation unit.
func Parse(filename string, src []byte) (*File, error) {
	return fileParser.ParseBytes(filename, src)
}
