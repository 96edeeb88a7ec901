package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sgjobs/jobpulse/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := []string{cfgPath, postingsPath, skillsPath}
	t.Cleanup(func() {
		cfgPath, postingsPath, skillsPath = old[0], old[1], old[2]
	})
	cfgPath, postingsPath, skillsPath = "", "", ""
}

func TestLoadConfig_MissingDefaultUsesBuiltins(t *testing.T) {
	resetFlags(t)
	t.Chdir(t.TempDir())
	t.Setenv("JOBPULSE_CONFIG", "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data.Postings != config.DefaultPostingsPath {
		t.Errorf("Postings = %q, want default", cfg.Data.Postings)
	}
}

func TestLoadConfig_ExplicitMissingFails(t *testing.T) {
	resetFlags(t)
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config")
	}
}

func TestLoadConfig_EnvAndOverrides(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "jobpulse.yaml")
	if err := os.WriteFile(path, []byte("data:\n  postings: from-file.csv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JOBPULSE_CONFIG", path)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data.Postings != "from-file.csv" {
		t.Errorf("Postings = %q, want from-file.csv", cfg.Data.Postings)
	}

	postingsPath = "flag.db"
	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Data.Postings != "flag.db" {
		t.Errorf("Postings = %q, want flag override", cfg.Data.Postings)
	}
}

func TestQuery(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "x"}
		c.Flags().StringSliceVarP(&excluded, "exclude", "x", nil, "")
		c.Flags().BoolVar(&noExcluded, "no-exclude", false, "")
		return c
	}
	t.Cleanup(func() { excluded, noExcluded, topN, sector = nil, false, 0, "" })

	c := newCmd()
	if q := query(c); q.Excluded != nil {
		t.Errorf("no flags: Excluded = %v, want nil (config default)", q.Excluded)
	}

	c = newCmd()
	if err := c.Flags().Parse([]string{"--exclude", "A,B"}); err != nil {
		t.Fatal(err)
	}
	if q := query(c); len(q.Excluded) != 2 || q.Excluded[1] != "B" {
		t.Errorf("--exclude: Excluded = %v", q.Excluded)
	}

	c = newCmd()
	if err := c.Flags().Parse([]string{"--no-exclude"}); err != nil {
		t.Fatal(err)
	}
	if q := query(c); q.Excluded == nil || len(q.Excluded) != 0 {
		t.Errorf("--no-exclude: Excluded = %v, want empty non-nil", q.Excluded)
	}
}
