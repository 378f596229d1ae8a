// Package depscan indexes line-oriented module directives in source trees,
// resolves the minimal set of external library files an application needs,
// and renders dependency manifests for a runtime module loader.
//
// # Pipeline
//
//  1. Walk: [WalkFiles] lists source files under a root, filtered by
//     extension, in lexical order.
//
//  2. Scan: each file is split into lines and every line beginning with a
//     declare or require keyword (see [Syntax]) contributes to a fresh
//     [Index]: a [ProvideIndex] (module → defining file, file → declared
//     modules) and a [RequireIndex] (file → required modules).
//
//  3. Resolve: a [ClosureResolver] seeds a module map with the application's
//     requirements that fall in the library namespace, then repeatedly adds
//     the requirements of every known module's defining file until the map
//     stops growing. Unresolved names are dropped; require cycles simply stop
//     contributing new entries.
//
//  4. Render: [GenerateManifest] emits one loader statement per file, and
//     [RequiresList] renders a single file's requirements for splicing.
//
// # Usage
//
//	e := depscan.New(depscan.WithLibrary(depscan.DefaultLibrary("third_party/closure-library")))
//
//	ctx := context.Background()
//	files, err := e.ScanDeps(ctx, "lib")
//	manifest, err := e.GenDeps(ctx, ".", []string{"lib", "tests"}, depscan.GenDepsOptions{})
//
// # Snapshots
//
// [SaveSnapshot] writes a scan to SQLite so it can be queried later through a
// [QueryBuilder] or reloaded with [LoadSnapshot]. Each save replaces the
// previous snapshot.
//
// # Scripting
//
// [Engine.Eval] and [Engine.EvalSource] run a Risor script against a scan,
// with the index, the manifest and (when a library is configured) closure
// resolution exposed as script functions.
package depscan
