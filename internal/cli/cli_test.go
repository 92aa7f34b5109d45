package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- helpers ---

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initWorkspace(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	if _, err := runCLI(t, "init", "--path", tmp); err != nil {
		t.Fatalf("init: %v", err)
	}
	return tmp
}

// --- looksLikePath ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"backup", false},
		{"backup.service", false},
		{"./backup.service", true},
		{"units/backup.service", true},
		{"/etc/systemd/system/backup.service", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- hasYAMLExt ---

func TestHasYAMLExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"agent.yaml", true},
		{"agent.yml", true},
		{"AGENT.YAML", true},
		{"agent.service", false},
		{"1", false},
		{"", false},
	}
	for _, c := range cases {
		if got := hasYAMLExt(c.input); got != c.want {
			t.Errorf("hasYAMLExt(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- fileExists ---

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.service")
	if err := os.WriteFile(p, []byte("[Unit]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
	if fileExists(filepath.Join(tmp, "not_there.service")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"new", "edit", "show", "check", "templates", "init", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
	for _, flag := range []string{"debug", "workspace"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
}

func TestNewCmd_Flags(t *testing.T) {
	cmd := newCmd(&globalFlags{})
	for _, flag := range []string{"name", "type", "template", "description", "set", "out", "stdout", "mkdir", "no-clobber", "exec-start", "on-calendar", "listen"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on new command", flag)
		}
	}
}

func TestEditCmd_Flags(t *testing.T) {
	cmd := editCmd(&globalFlags{})
	for _, flag := range []string{"set", "unset", "out", "stdout", "mkdir", "no-clobber"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on edit command", flag)
		}
	}
}

func TestTemplatesCmd_HasSubcommands(t *testing.T) {
	cmd := templatesCmd(&globalFlags{})
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	if !names["list"] || !names["show"] {
		t.Errorf("expected list and show under templates, got %v", names)
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	if cmd.Flags().Lookup("path") == nil {
		t.Error("expected --path flag on init command")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag on init command")
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- end to end ---

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "unitforge ") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestNew_FromTemplateWritesIntoWorkspace(t *testing.T) {
	ws := initWorkspace(t)

	out, err := runCLI(t, "-w", ws, "new", "--name", "backup", "--template", "1")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	path := filepath.Join(ws, "units", "backup.service")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read unit: %v", err)
	}
	want := "[Unit]\nDescription=Simple Background Service\nAfter=network.target\n\n[Service]\nType=simple\nExecStart=/path/to/your/command\nRestart=on-failure\nUser=nobody\nWorkingDirectory=/tmp\n\n[Install]\nWantedBy=multi-user.target\n"
	if string(b) != want {
		t.Fatalf("unexpected unit file:\n%s", string(b))
	}

	for _, w := range []string{path, "sudo systemctl daemon-reload", "sudo systemctl enable backup.service", "sudo systemctl start backup.service"} {
		if !strings.Contains(out, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, out)
		}
	}
}

func TestNew_WizardFlagsToStdout(t *testing.T) {
	ws := initWorkspace(t)

	out, err := runCLI(t, "-w", ws, "new",
		"--name", "web", "--type", "socket",
		"--description", "Web socket",
		"--listen", "127.0.0.1:8080",
		"--set", "Install.WantedBy=sockets.target",
		"--stdout",
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := "[Unit]\nDescription=Web socket\n\n[Socket]\nListenStream=127.0.0.1:8080\n\n[Install]\nWantedBy=sockets.target\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if fileExists(filepath.Join(ws, "units", "web.socket")) {
		t.Fatalf("expected nothing written with --stdout")
	}
}

func TestNew_MkdirAndNoClobber(t *testing.T) {
	ws := initWorkspace(t)
	dir := filepath.Join(ws, "out", "nested")

	if _, err := runCLI(t, "-w", ws, "new", "--name", "job", "--template", "2", "--out", dir); err == nil {
		t.Fatalf("expected error writing into a missing directory")
	}
	if _, err := runCLI(t, "-w", ws, "new", "--name", "job", "--template", "2", "--out", dir, "--mkdir"); err != nil {
		t.Fatalf("new --mkdir: %v", err)
	}
	path := filepath.Join(dir, "job.service")
	if !fileExists(path) {
		t.Fatalf("expected %s written", path)
	}

	if _, err := runCLI(t, "-w", ws, "new", "--name", "job", "--template", "1", "--out", dir, "--no-clobber"); err == nil {
		t.Fatalf("expected --no-clobber to refuse an existing file")
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "Type=oneshot") {
		t.Fatalf("expected existing file preserved, got:\n%s", string(b))
	}
}

func TestNew_RejectsUnknownChoice(t *testing.T) {
	ws := initWorkspace(t)
	if _, err := runCLI(t, "-w", ws, "new", "--name", "x", "--restart", "sometimes", "--stdout"); err == nil {
		t.Fatalf("expected error for unknown restart policy")
	}
}

func TestNew_UserTemplateExpandsName(t *testing.T) {
	ws := initWorkspace(t)

	out, err := runCLI(t, "-w", ws, "new", "--name", "pgdump", "--template", "nightly-backup", "--stdout")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "ExecStart=/usr/local/bin/pgdump\n") {
		t.Fatalf("expected placeholder expanded, got:\n%s", out)
	}
}

func TestEdit_ShowAndCheck(t *testing.T) {
	ws := initWorkspace(t)
	if _, err := runCLI(t, "-w", ws, "new", "--name", "backup", "--template", "1"); err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := runCLI(t, "-w", ws, "edit", "backup.service",
		"--set", "Service.User=root",
		"--unset", "Install.WantedBy",
	); err != nil {
		t.Fatalf("edit: %v", err)
	}

	out, err := runCLI(t, "-w", ws, "show", "backup.service")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "User=root\n") || strings.Contains(out, "[Install]") {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	out, err = runCLI(t, "-w", ws, "check", filepath.Join(ws, "units", "backup.service"))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != "OK" {
		t.Fatalf("unexpected check output:\n%s", out)
	}
}

func TestEdit_FlagsApplyInCommandLineOrder(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		wantUser bool
	}{
		{"unset then set", []string{"--unset", "Service.User", "--set", "Service.User=deploy"}, true},
		{"set then unset", []string{"--set", "Service.User=deploy", "--unset", "Service.User"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ws := initWorkspace(t)
			if _, err := runCLI(t, "-w", ws, "new", "--name", "backup", "--template", "1"); err != nil {
				t.Fatalf("new: %v", err)
			}

			args := append([]string{"-w", ws, "edit", "backup.service", "--stdout"}, c.args...)
			out, err := runCLI(t, args...)
			if err != nil {
				t.Fatalf("edit: %v", err)
			}
			if got := strings.Contains(out, "User=deploy\n"); got != c.wantUser {
				t.Fatalf("User=deploy present = %v, want %v:\n%s", got, c.wantUser, out)
			}
		})
	}
}

func TestEdit_MultiLineValueWritesNothing(t *testing.T) {
	ws := initWorkspace(t)
	if _, err := runCLI(t, "-w", ws, "new", "--name", "backup", "--template", "1"); err != nil {
		t.Fatalf("new: %v", err)
	}
	path := filepath.Join(ws, "units", "backup.service")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "-w", ws, "edit", "backup.service", "--set", "Service.User=root\n[Install]"); err == nil {
		t.Fatalf("expected multi-line value rejected")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatalf("unit file changed:\n%s", after)
	}
}

func TestCheck_ReportsIgnoredLines(t *testing.T) {
	ws := initWorkspace(t)
	path := filepath.Join(ws, "units", "messy.service")
	if err := os.WriteFile(path, []byte("Orphan=1\n[Service]\nExecStart=/bin/true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-w", ws, "check", path)
	if err == nil {
		t.Fatalf("expected check to fail")
	}
	if !strings.Contains(out, ":1: ignored") {
		t.Fatalf("expected ignored line reported, got:\n%s", out)
	}
}

func TestWorkspace_BrokenTemplateIsSkipped(t *testing.T) {
	ws := initWorkspace(t)
	if err := os.WriteFile(filepath.Join(ws, "templates", "broken.yaml"), []byte("id: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-w", ws, "templates", "list")
	if err != nil {
		t.Fatalf("templates list: %v", err)
	}
	if !strings.Contains(out, "nightly-backup") {
		t.Fatalf("expected remaining templates listed, got:\n%s", out)
	}

	if _, err := runCLI(t, "-w", ws, "new", "--name", "backup", "--template", "1"); err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err = runCLI(t, "-w", ws, "show", "backup.service")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "[Service]") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}

func TestTemplates_ListAndShow(t *testing.T) {
	ws := initWorkspace(t)

	out, err := runCLI(t, "-w", ws, "templates", "list")
	if err != nil {
		t.Fatalf("templates list: %v", err)
	}
	for _, w := range []string{"Simple Service", "Periodic Task Timer", "nightly-backup"} {
		if !strings.Contains(out, w) {
			t.Errorf("expected %q in listing, got:\n%s", w, out)
		}
	}

	out, err = runCLI(t, "-w", ws, "templates", "show", "5")
	if err != nil {
		t.Fatalf("templates show: %v", err)
	}
	if !strings.Contains(out, "[Timer]") {
		t.Fatalf("expected timer template, got:\n%s", out)
	}

	if _, err := runCLI(t, "-w", ws, "templates", "show", "99"); err == nil {
		t.Fatalf("expected unknown template error")
	}
}
