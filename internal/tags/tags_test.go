package tags

import "testing"

func TestForInstance(t *testing.T) {
	t.Parallel()
	got := ForInstance("dev", "web-1").Build()

	if got[KeyCluster] != "dev" {
		t.Errorf("expected %s=dev, got %q", KeyCluster, got[KeyCluster])
	}
	if got[KeyName] != "web-1" {
		t.Errorf("expected %s=web-1, got %q", KeyName, got[KeyName])
	}
	if got[KeyManagedBy] != ManagedBy {
		t.Errorf("expected %s=%s, got %q", KeyManagedBy, ManagedBy, got[KeyManagedBy])
	}
}

func TestBuildReturnsCopy(t *testing.T) {
	t.Parallel()
	b := ForCluster("dev")
	first := b.Build()
	first[KeyCluster] = "mutated"

	if b.Build()[KeyCluster] != "dev" {
		t.Error("Build must return a copy, not the internal map")
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()
	got := ForInstance("dev", "web-1").Labels()

	want := map[string]string{
		LabelCluster:   "dev",
		LabelName:      "web-1",
		LabelManagedBy: ManagedBy,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("expected %s=%q, got %q", k, v, got[k])
		}
	}
	if len(got) != len(want) {
		t.Errorf("unexpected extra labels: %v", got)
	}
}

func TestStrings(t *testing.T) {
	t.Parallel()
	got := ForInstance("dev", "web-1").Strings()

	want := []string{"vmcli-cluster:dev", "vmcli-name:web-1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSelectors(t *testing.T) {
	t.Parallel()
	if s := ClusterSelector("dev"); s != "vmcli-cluster=dev" {
		t.Errorf("ClusterSelector: got %q", s)
	}
	if s := InstanceSelector("dev", "web-1"); s != "vmcli-cluster=dev,vmcli-name=web-1" {
		t.Errorf("InstanceSelector: got %q", s)
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()
	valid := []string{"dev", "web-1", "a", "prod-eu-1", "c0", "abcdefghijklmnopqrstuvwxyz-12345"}
	for _, name := range valid {
		if err := ValidateName("cluster", name); err != nil {
			t.Errorf("expected %q to be valid, got: %v", name, err)
		}
	}

	invalid := []string{
		"",
		"Dev",
		"1web",
		"-web",
		"web-",
		"web_1",
		"web.1",
		"abcdefghijklmnopqrstuvwxyz-123456", // 33 runes
	}
	for _, name := range invalid {
		if err := ValidateName("instance", name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
