package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a fixed two-file index.
type fakeSource struct{}

func (fakeSource) Files() []string { return []string{"/app/db.js", "/app/smoke.js"} }

func (fakeSource) Declares(path string) []string {
	if path == "/app/db.js" {
		return []string{"lf.Database", "lf.Database.Options"}
	}
	return nil
}

func (fakeSource) RequiredBy(path string) []string {
	switch path {
	case "/app/db.js":
		return []string{"goog.Promise"}
	case "/app/smoke.js":
		return []string{"lf.Database", "goog.testing.jsunit"}
	}
	return nil
}

func (fakeSource) Definer(name string) (string, bool) {
	if name == "lf.Database" || name == "lf.Database.Options" {
		return "/app/db.js", true
	}
	return "", false
}

func (fakeSource) AllRequires() []string {
	return []string{"goog.Promise", "lf.Database", "goog.testing.jsunit"}
}

func TestRunSource_Files(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")

	got, err := rt.RunSource(context.Background(), `files()`, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"/app/db.js", "/app/smoke.js"}, got)
}

func TestRunSource_DeclaresAndRequires(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")
	ctx := context.Background()

	got, err := rt.RunSource(ctx, `declares("/app/db.js")`, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"lf.Database", "lf.Database.Options"}, got)

	got, err = rt.RunSource(ctx, `requires("/app/smoke.js")`, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"lf.Database", "goog.testing.jsunit"}, got)

	got, err = rt.RunSource(ctx, `requires("/app/none.js")`, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunSource_Definer(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")
	ctx := context.Background()

	got, err := rt.RunSource(ctx, `definer("lf.Database.Options")`, nil)
	require.NoError(t, err)
	assert.Equal(t, "/app/db.js", got)

	got, err = rt.RunSource(ctx, `definer("goog.Promise")`, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunSource_ScriptLogic(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")

	script := `
external := []
for _, name := range all_requires() {
    if definer(name) == nil {
        external.append(name)
    }
}
len(external)
`
	got, err := rt.RunSource(context.Background(), script, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestRunSource_DefinerWrongArgType(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")

	_, err := rt.RunSource(context.Background(), `definer(1)`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definer")
}

func TestRunSource_Closure(t *testing.T) {
	var seen []string
	rt := NewRuntime(fakeSource{}, "", WithClosure(func(ctx context.Context, names []string) ([]string, error) {
		seen = names
		return []string{"/lib/promise.js", "/lib/base.js"}, nil
	}))

	got, err := rt.RunSource(context.Background(), `closure(["goog.Promise"])`, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"/lib/promise.js", "/lib/base.js"}, got)
	assert.Equal(t, []string{"goog.Promise"}, seen)
}

func TestRunSource_ClosureError(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "", WithClosure(func(ctx context.Context, names []string) ([]string, error) {
		return nil, errors.New("no library")
	}))

	_, err := rt.RunSource(context.Background(), `closure([])`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no library")
}

func TestRunSource_Manifest(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "", WithManifest(func() (string, error) {
		return `goog.addDependency("../../db.js", [], []);`, nil
	}))

	got, err := rt.RunSource(context.Background(), `manifest()`, nil)
	require.NoError(t, err)
	assert.Equal(t, `goog.addDependency("../../db.js", [], []);`, got)
}

func TestRunSource_OptionalGlobalsAbsent(t *testing.T) {
	rt := NewRuntime(nil, "")

	_, err := rt.RunSource(context.Background(), `files()`, nil)
	require.Error(t, err)
}

func TestRunSource_ExtraGlobals(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")

	got, err := rt.RunSource(context.Background(), `prefix + "Promise"`, map[string]any{
		"prefix": "goog.",
	})
	require.NoError(t, err)
	assert.Equal(t, "goog.Promise", got)
}

func TestRunSource_SyntaxError(t *testing.T) {
	rt := NewRuntime(fakeSource{}, "")

	_, err := rt.RunSource(context.Background(), `files(`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<inline>")
}

// --- fs.FS-based script loading tests ---

func TestLoadScript_FromFSFS(t *testing.T) {
	t.Parallel()

	content := `x := 42`
	mapFS := fstest.MapFS{
		"report/unused.risor": &fstest.MapFile{Data: []byte(content)},
	}

	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	got, err := rt.LoadScript("report/unused.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLoadScript_FromFSFS_NotFound(t *testing.T) {
	t.Parallel()

	rt := NewRuntime(nil, "", WithRuntimeFS(fstest.MapFS{}))

	_, err := rt.LoadScript("nonexistent.risor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from fs")
}

func TestLoadScript_FromFSFS_StripsLeadingSeparator(t *testing.T) {
	t.Parallel()

	content := `y := 99`
	mapFS := fstest.MapFS{
		"report/unused.risor": &fstest.MapFile{Data: []byte(content)},
	}

	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	got, err := rt.LoadScript("/report/unused.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLoadScript_FallsBackToDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `z := 7`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.risor"), []byte(content), 0644))

	rt := NewRuntime(nil, dir)

	got, err := rt.LoadScript("test.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestRunScript_FromFSFS(t *testing.T) {
	mapFS := fstest.MapFS{
		"count.risor": &fstest.MapFile{Data: []byte(`len(files())`)},
	}

	rt := NewRuntime(fakeSource{}, "", WithRuntimeFS(mapFS))
	got, err := rt.RunScript(context.Background(), "count.risor", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestRunScript_MissingFile(t *testing.T) {
	rt := NewRuntime(fakeSource{}, t.TempDir())

	_, err := rt.RunScript(context.Background(), "missing.risor", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
