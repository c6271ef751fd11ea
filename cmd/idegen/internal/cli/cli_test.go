package cli

import (
	"testing"
)

// TestNoFlagConflicts verifies that all subcommands can be initialized
// without flag shorthand conflicts.
func TestNoFlagConflicts(t *testing.T) {
	root := RootCmd()
	if root == nil {
		t.Fatal("RootCmd() returned nil")
	}

	subcommands := root.Commands()
	if len(subcommands) == 0 {
		t.Fatal("expected at least one subcommand")
	}

	for _, cmd := range subcommands {
		t.Run(cmd.Name(), func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("flag conflict in %q command: %v", cmd.Name(), r)
				}
			}()
			// Forces the merge of persistent and local flags.
			_ = cmd.Flags()
			_ = cmd.InheritedFlags()
		})
	}
}

// TestGlobalVerbosityFlag verifies the global -v flag exists and is properly configured.
func TestGlobalVerbosityFlag(t *testing.T) {
	root := RootCmd()

	vFlag := root.PersistentFlags().Lookup("verbosity")
	if vFlag == nil {
		t.Fatal("expected persistent 'verbosity' flag on root command")
	}
	if vFlag.Shorthand != "v" {
		t.Errorf("verbosity shorthand = %q, want v", vFlag.Shorthand)
	}
	if vFlag.DefValue != "1" {
		t.Errorf("verbosity default = %q, want 1", vFlag.DefValue)
	}
}

func TestGenCommandRegistered(t *testing.T) {
	root := RootCmd()
	for _, cmd := range root.Commands() {
		if cmd.Name() == "gen" {
			if err := cmd.Args(cmd, nil); err == nil {
				t.Error("gen should require at least one target argument")
			}
			return
		}
	}
	t.Fatal("gen command not registered")
}

func TestGenFlagDefaults(t *testing.T) {
	root := RootCmd()
	for _, cmd := range root.Commands() {
		if cmd.Name() != "gen" {
			continue
		}
		cases := map[string]string{
			"intransitive": "false",
			"java":         "true",
			"scala":        "true",
			"python":       "false",
		}
		for name, want := range cases {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				t.Errorf("missing --%s flag", name)
				continue
			}
			if f.DefValue != want {
				t.Errorf("--%s default = %q, want %q", name, f.DefValue, want)
			}
		}
		return
	}
	t.Fatal("gen command not registered")
}
