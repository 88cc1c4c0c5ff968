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

package analyzer

// OnceBefore are the rules specializing the query for its parameter
// values. They run a single time, before simplification.
var OnceBefore = []Rule{
	{"expand_from_sql", expandFromSql},
	{"process_null_semantics", processNullSemantics},
}

// DefaultRules to apply until the query stops changing.
var DefaultRules = []Rule{
	{"simplify_expressions", simplifyExpressions},
}
