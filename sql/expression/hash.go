// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expression

import (
	"fmt"
	"hash"
	"io"

	"github.com/cespare/xxhash"

	"github.com/dolthub/go-query-shaper/sql"
)

// Hash returns a content hash of e. Structurally equal expressions have the
// same hash; the converse does not hold, so callers must confirm matches
// with EqualExprs.
func Hash(e sql.Expression) uint64 {
	var h hash.Hash64 = xxhash.New()
	writeExpr(h, e)
	return h.Sum64()
}

func writeExpr(w io.Writer, e sql.Expression) {
	if e == nil {
		_, _ = w.Write([]byte{0})
		return
	}

	fmt.Fprintf(w, "%T(", e)
	switch e := e.(type) {
	case *Literal:
		fmt.Fprintf(w, "%T:%v", e.value, e.value)
	case *Parameter:
		io.WriteString(w, e.name)
	case *Column:
		fmt.Fprintf(w, "%s.%s#%d:%t", e.table, e.name, e.index, e.nullable)
	case *Unary:
		fmt.Fprintf(w, "%d", e.Op)
	case *Binary:
		fmt.Fprintf(w, "%d", e.Op)
	case *In:
		fmt.Fprintf(w, "%t", e.Negated)
		if e.Query != nil {
			io.WriteString(w, e.Query.String())
		}
	case *Exists:
		fmt.Fprintf(w, "%t:%s", e.Negated, e.Query)
	case *ScalarSubquery:
		io.WriteString(w, e.Query.String())
	case *Function:
		io.WriteString(w, e.Name)
	case *Case:
		fmt.Fprintf(w, "%d:%t:%t", len(e.Branches), e.Expr != nil, e.Else != nil)
	case *RowNumber:
		fmt.Fprintf(w, "%d", len(e.Partitions))
		for _, o := range e.Orderings {
			fmt.Fprintf(w, ":%t", o.Ascending)
		}
	case *Fragment:
		io.WriteString(w, e.Sql)
	}

	for _, child := range e.Children() {
		_, _ = w.Write([]byte{1})
		writeExpr(w, child)
	}
	_, _ = w.Write([]byte{')'})
}
