package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassifierFlagsDangerousCommands(t *testing.T) {
	classifier, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	cases := []struct {
		command string
		rule    string
	}{
		{"rm -rf /tmp/x", "recursive-force-delete"},
		{"rm -fr build/", "recursive-force-delete"},
		{"dd if=image.iso of=/dev/sda", "raw-disk-write"},
		{"mkfs.ext4 /dev/sdb1", "filesystem-create"},
		{"fdisk /dev/sda", "partition-edit"},
		{"sudo rm config.yaml", "privileged-delete"},
		{"sudo dd if=/dev/zero of=disk.img", "privileged-disk-write"},
		{":(){ :|:& };:", "fork-bomb"},
		{"chmod -R 777 /var/www", "world-writable-recursive"},
		{"echo test > /dev/sda", "device-redirect"},
	}

	for _, tc := range cases {
		verdict := classifier.Classify(tc.command)
		if verdict.Safe() {
			t.Fatalf("expected %q to be flagged", tc.command)
		}
		found := false
		for _, id := range verdict.MatchedRules {
			if id == tc.rule {
				found = true
			}
		}
		if !found {
			t.Fatalf("%q matched %v, want rule %s", tc.command, verdict.MatchedRules, tc.rule)
		}
	}
}

func TestClassifierAllowsSafeCommands(t *testing.T) {
	classifier, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	for _, command := range []string{"echo hi", "ls -la", "git status", "df -h"} {
		if verdict := classifier.Classify(command); !verdict.Safe() {
			t.Fatalf("expected %q safe, matched %v", command, verdict.MatchedRules)
		}
	}
}

func TestClassifierAccumulatesAllMatches(t *testing.T) {
	classifier, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	verdict := classifier.Classify("sudo rm -rf /var/lib")
	if len(verdict.MatchedRules) < 2 {
		t.Fatalf("expected multiple matches, got %v", verdict.MatchedRules)
	}
	if len(verdict.Reasons) != len(verdict.MatchedRules) {
		t.Fatalf("reasons out of sync with rules: %v vs %v", verdict.Reasons, verdict.MatchedRules)
	}
}

func TestClassifierLoadsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `rules:
  - id: forbidden-word
    pattern: 'frobnicate'
    message: Frobnication is forbidden here
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	classifier, err := NewClassifier(path)
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	if got := len(classifier.Rules()); got != 1 {
		t.Fatalf("expected 1 rule from override file, got %d", got)
	}
	if verdict := classifier.Classify("frobnicate the widget"); verdict.Safe() {
		t.Fatal("override rule did not match")
	}
	if verdict := classifier.Classify("rm -rf /"); !verdict.Safe() {
		t.Fatal("default rules should be replaced by the override file")
	}
}

func TestClassifierRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `rules:
  - id: broken
    pattern: '['
    message: bad regex
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := NewClassifier(path); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
