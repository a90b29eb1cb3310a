package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

// TestErrorCodesAreUnique scans the package sources for Error{...} literals
// and fails if two variables share the same Code.
func TestErrorCodesAreUnique(t *testing.T) {
	c := qt.New(t)
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, ".", func(info fs.FileInfo) bool {
		return !strings.HasSuffix(info.Name(), "_test.go")
	}, 0)
	c.Assert(err, qt.IsNil)
	pkg, ok := pkgs["errors"]
	c.Assert(ok, qt.IsTrue)

	seen := map[int]string{}
	for _, f := range pkg.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			vs, ok := n.(*ast.ValueSpec)
			if !ok {
				return true
			}
			for i, name := range vs.Names {
				if i >= len(vs.Values) {
					continue
				}
				cl, ok := vs.Values[i].(*ast.CompositeLit)
				if !ok {
					continue
				}
				if id, ok := cl.Type.(*ast.Ident); !ok || id.Name != "Error" {
					continue
				}
				code, ok := codeField(cl)
				if !ok {
					continue
				}
				if prev, dup := seen[code]; dup {
					t.Errorf("code %d used by both %s and %s", code, prev, name.Name)
				}
				seen[code] = name.Name
			}
			return true
		})
	}
	c.Assert(len(seen) > 0, qt.IsTrue)
}

func codeField(cl *ast.CompositeLit) (int, bool) {
	for _, elt := range cl.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		if key, ok := kv.Key.(*ast.Ident); !ok || key.Name != "Code" {
			continue
		}
		lit, ok := kv.Value.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			continue
		}
		n, err := strconv.Atoi(lit.Value)
		return n, err == nil
	}
	return 0, false
}

func TestWrite(t *testing.T) {
	c := qt.New(t)
	rec := httptest.NewRecorder()
	ErrCampaignNotFound.With("abc").Write(rec)

	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(rec.Header().Get("Content-Type"), qt.Equals, "application/json")
	var body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
	c.Assert(body.Code, qt.Equals, ErrCampaignNotFound.Code)
	c.Assert(body.Error, qt.Equals, "campaign not found: abc")
}

func TestWrappedErrorsMatch(t *testing.T) {
	c := qt.New(t)
	wrapped := fmt.Errorf("refund: %w", ErrDonationNotRefunded.Withf("status %s", "Refunded"))
	c.Assert(stderrors.Is(wrapped, ErrDonationNotRefunded), qt.IsTrue)
	c.Assert(stderrors.Is(wrapped, ErrInvalidTransition), qt.IsFalse)

	var apiErr Error
	c.Assert(stderrors.As(wrapped, &apiErr), qt.IsTrue)
	c.Assert(apiErr.HTTPstatus, qt.Equals, http.StatusConflict)

	withData := ErrMalformedBody.WithData(map[string]string{"field": "amount"}).With("bad")
	c.Assert(withData.Data, qt.DeepEquals, map[string]string{"field": "amount"})
}
