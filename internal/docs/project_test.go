package docs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/manifest"
)

func TestTargetFramework(t *testing.T) {
	tests := []struct {
		unity string
		want  string
	}{
		{"2023.1", FrameworkNetStandard21},
		{"2022.3", FrameworkNetStandard21},
		{"2021.2", FrameworkNetStandard21},
		{"2021.1", FrameworkNetStandard20},
		{"2019.4", FrameworkNetStandard20},
		{"2018.1", FrameworkNetStandard20},
		{"2017.4", FrameworkLegacy},
		{"", FrameworkLegacy},
		{"not-a-version", FrameworkLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.unity, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetFramework(tt.unity))
		})
	}
}

func TestDefineConstants(t *testing.T) {
	assert.Equal(t, "PACKAGE_DOCS_GENERATION", DefineConstants(nil))
	assert.Equal(t, "PACKAGE_DOCS_GENERATION;FOO;BAR", DefineConstants([]string{"FOO", "BAR"}))
}

func TestProjectRender(t *testing.T) {
	a := Assembly{
		Def:   &manifest.AsmDef{Name: "Bar", AllowUnsafeCode: true},
		Files: []string{"Runtime/Editor/B.cs"},
	}
	out, err := NewProject(a, NewSettings("2022.3", []string{"FOO"})).Render()
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, `<Project Sdk="Microsoft.NET.Sdk">`)
	assert.Contains(t, doc, "<DefineConstants>PACKAGE_DOCS_GENERATION;FOO</DefineConstants>")
	assert.Contains(t, doc, "<TargetFramework>netstandard2.1</TargetFramework>")
	assert.Contains(t, doc, "<AllowUnsafeBlocks>true</AllowUnsafeBlocks>")
	assert.Contains(t, doc, "<LangVersion>10</LangVersion>")
	assert.Contains(t, doc, "<EnableDefaultCompileItems>false</EnableDefaultCompileItems>")
	assert.Contains(t, doc, `<Reference Include="System">`)
	assert.Contains(t, doc, `<Compile Include="Runtime/Editor/B.cs">`)
	assert.NotContains(t, doc, "<Nullable>")
	assert.NotContains(t, doc, "<NoWarn>")
}

func TestProjectRenderCompilerOptions(t *testing.T) {
	a := Assembly{
		Def:     &manifest.AsmDef{Name: "Foo"},
		Files:   []string{"Runtime/A.cs"},
		Options: CompilerOptions{NoWarn: "0169", LangVersion: "9", Nullable: true},
	}
	out, err := NewProject(a, NewSettings("2019.4", nil)).Render()
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "<AllowUnsafeBlocks>false</AllowUnsafeBlocks>")
	assert.Contains(t, doc, "<LangVersion>9</LangVersion>")
	assert.Contains(t, doc, "<Nullable>enable</Nullable>")
	assert.Contains(t, doc, "<NoWarn>0169</NoWarn>")
	assert.Contains(t, doc, "<TargetFramework>netstandard2.0</TargetFramework>")
}

func TestSynthesizeSkipsEmptyAssemblies(t *testing.T) {
	dir := t.TempDir()
	assemblies := []Assembly{
		{Def: &manifest.AsmDef{Name: "Bar"}, Files: []string{"Runtime/Editor/B.cs"}},
		{Def: &manifest.AsmDef{Name: "Empty"}},
		{Def: &manifest.AsmDef{Name: "Foo"}, Files: []string{"Runtime/A.cs"}},
	}

	var names []string
	for name, err := range Synthesize(assemblies, NewSettings("2022.3", nil), dir, fileutil.New(nil)) {
		require.NoError(t, err)
		names = append(names, name)
	}

	assert.Equal(t, []string{"Bar.csproj", "Foo.csproj"}, names)
	assert.FileExists(t, filepath.Join(dir, "Bar.csproj"))
	assert.FileExists(t, filepath.Join(dir, "Foo.csproj"))
	_, err := os.Stat(filepath.Join(dir, "Empty.csproj"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSynthesizeIsLazy(t *testing.T) {
	dir := t.TempDir()
	assemblies := []Assembly{
		{Def: &manifest.AsmDef{Name: "First"}, Files: []string{"a.cs"}},
		{Def: &manifest.AsmDef{Name: "Second"}, Files: []string{"b.cs"}},
	}

	for name, err := range Synthesize(assemblies, NewSettings("", nil), dir, fileutil.New(nil)) {
		require.NoError(t, err)
		assert.Equal(t, "First.csproj", name)
		break
	}

	assert.FileExists(t, filepath.Join(dir, "First.csproj"))
	assert.NoFileExists(t, filepath.Join(dir, "Second.csproj"))
}
