package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(viper.New())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLIOfflineDictionarySession(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile("words.dict", []byte("cat:кот\ndog:собака\n"), 0o644))

	// empty answers always pass, whatever order the words come in
	out, err := execute(t, "\n\n", "--offline", "--dictionary", "words.dict", "--count", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "Words for training: 2")
	assert.Contains(t, out, "Correct answers: 2")
	assert.Contains(t, out, "Wrong answers: 0")
	assert.FileExists(t, filepath.Join(dir, "words.json"))

	// second run reuses the store; both words are already reviewed today
	out, err = execute(t, "\n\n", "--offline", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Previously repeated words: 2")
}

func TestCLIEmptyWordList(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "The list of words is empty.")
}

func TestCLIRejectsInvalidConfig(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := execute(t, "", "--count", "0")
	assert.ErrorContains(t, err, "count must be positive")

	_, err = execute(t, "", "--login", "me")
	assert.ErrorContains(t, err, "sources.password")
}

func TestCLIStoreWriteFailure(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile("words.dict", []byte("cat:кот\n"), 0o644))

	_, err := execute(t, "cat\n", "--offline", "--dictionary", "words.dict",
		"--store", filepath.Join(dir, "missing", "words.json"))
	assert.ErrorContains(t, err, "could not save")
}

func TestCLIListsLessonPages(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.Mkdir("pages", 0o755))
	page := `<html><head><title>Food and Drink</title></head><body><div class="wordset"><ul><li>` +
		`<div class="original"><span class="text">bread</span></div><div class="translation">хлеб</div>` +
		`</li></ul></div></body></html>`
	require.NoError(t, os.WriteFile(filepath.Join("pages", "01.html"), []byte(page), 0o644))

	out, err := execute(t, "\n", "--offline", "--dir", "pages")
	require.NoError(t, err)
	assert.Contains(t, out, `Lesson "Food and Drink": 1 words`)
	assert.Contains(t, out, "Words for training: 1")
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
