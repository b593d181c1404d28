package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"reflect"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// Marker identifying operations for which dump hooks are generated, followed
// by the instruction's mnemonic.
const DUMP_MARKER = "+dump"

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-tapevm")

	specs := []dumpSpecs{
		{Package: "isa", Input: "../../pkg/isa/ops.go", Output: "../../pkg/isa/dump_gen.go"},
	}

	for _, spec := range specs {
		cfg, err := spec.config()
		assertNoError(err, "for package \"%s\"", spec.Package)

		assertNoError(bgen.Generate(cfg, spec.Package, "templates",
			bavard.Entry{
				File:      spec.Output,
				Templates: []string{"dump.go.tmpl"},
			},
		), "for package \"%s\"", spec.Package)
	}
	// run gofmt on generated files
	runCmd("gofmt", "-w", "../../pkg/")
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

type dumpSpecs struct {
	Package string
	Input   string
	Output  string
}

type dumpConfig struct {
	dumpSpecs
	Ops []dumpOp
}

// dumpOp describes the dump hook of a single operation.
type dumpOp struct {
	Type     string
	Mnemonic string
	// Format string and its arguments, or empty if the operation has no fields.
	Format string
	Args   string
	// Whether the hook requires the dumper.
	UsesDumper bool
}

func (f dumpSpecs) config() (*dumpConfig, error) {
	bytes, err := os.ReadFile(f.Input)
	if err != nil {
		return nil, err
	}

	ops, err := parseOps(f.Input, bytes)
	if err != nil {
		return nil, err
	}

	return &dumpConfig{f, ops}, nil
}

// Parse the marked operations from a given Go source file.
func parseOps(filename string, src []byte) ([]dumpOp, error) {
	var ops []dumpOp

	file, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			tspec := spec.(*ast.TypeSpec)
			doc := tspec.Doc

			if doc == nil {
				doc = gen.Doc
			}

			mnemonic, ok := findMarker(doc)
			if !ok {
				continue
			}

			st, ok := tspec.Type.(*ast.StructType)
			if !ok {
				return nil, fmt.Errorf("%s is marked %s but is not a struct", tspec.Name.Name, DUMP_MARKER)
			}

			ops = append(ops, buildOp(tspec.Name.Name, mnemonic, st))
		}
	}

	return ops, nil
}

// Find the mnemonic given by a marker in a comment group (if any).
func findMarker(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}

	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))

		if rest, ok := strings.CutPrefix(text, DUMP_MARKER); ok {
			if mnemonic := strings.TrimSpace(rest); mnemonic != "" {
				return mnemonic, true
			}
		}
	}

	return "", false
}

func buildOp(name string, mnemonic string, st *ast.StructType) dumpOp {
	var (
		formats []string
		args    []string
		uses    bool
	)

	for _, field := range st.Fields.List {
		format, arg, dumper := fieldFormat(field)

		for _, n := range field.Names {
			formats = append(formats, format)
			args = append(args, fmt.Sprintf(arg, "p."+n.Name))
			uses = uses || dumper
		}
	}

	op := dumpOp{Type: name, Mnemonic: mnemonic, UsesDumper: uses}

	if len(formats) > 0 {
		op.Format = mnemonic + " " + strings.Join(formats, ", ")
		op.Args = strings.Join(args, ", ")
	}

	return op
}

// Determine how a given field is rendered, returning the format verb, a
// template for the argument and whether the dumper is required.
func fieldFormat(field *ast.Field) (string, string, bool) {
	if field.Tag != nil {
		tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))

		if tag.Get("dump") == "reg" {
			return "r%d", "%s", false
		}
	}

	switch qualifiedName(field.Type) {
	case "vm.Offset":
		return "%s", "d.Offset(%s)", true
	case "vm.Const":
		return "%s", "%s.Dump(d)", true
	case "fr.Element":
		return "%s", "%s.String()", false
	default:
		return "%v", "%s", false
	}
}

// Determine the qualified name of a type expression (ignoring any type
// arguments), or the empty string if it has none.
func qualifiedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.IndexExpr:
		return qualifiedName(e.X)
	case *ast.IndexListExpr:
		return qualifiedName(e.X)
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok {
			return pkg.Name + "." + e.Sel.Name
		}
	case *ast.Ident:
		return e.Name
	}

	return ""
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
