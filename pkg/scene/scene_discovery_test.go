package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-smoke", "Cornell Smoke"},
		{"two_spheres", "Two Spheres"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "complete_metadata.json",
			content: `{"name": "Cornell Box", "variant": "Empty Room", "description": "No objects", "group": "Cornell Variants", "objects": []}`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Cornell Box",
				DisplayName: "Cornell Box - Empty Room",
				Description: "No objects",
				Group:       "Cornell Variants",
				Type:        "file",
				Variant:     "Empty Room",
			},
		},
		{
			name:    "partial_metadata.json",
			content: `{"name": "Lines", "description": "Capsules"}`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Lines",
				DisplayName: "Lines",
				Description: "Capsules",
				Group:       FileGroup,
				Type:        "file",
			},
		},
		{
			name:    "no_metadata.json",
			content: `{"objects": []}`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       FileGroup,
				Type:        "file",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write scene file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := ParseSceneMetadata(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"name": `), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	if _, err := ParseSceneMetadata(broken); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestListFileScenes(t *testing.T) {
	scenes, err := ListFileScenes(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil || scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected an empty list for a missing directory, got %v, %v", scenes, err)
	}

	dir := t.TempDir()
	files := map[string]string{
		"b.json":   `{"name": "Beta"}`,
		"a.json":   `{"name": "Alpha"}`,
		"bad.json": `not json`,
		"skip.txt": `{"name": "Ignored"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err = ListFileScenes(dir)
	if err != nil {
		t.Fatalf("ListFileScenes() error: %v", err)
	}
	if len(scenes) != 2 || scenes[0].Name != "Alpha" || scenes[1].Name != "Beta" {
		t.Errorf("Expected Alpha and Beta in order, got %+v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.json"), []byte(`{"name": "Custom", "group": "Mine"}`), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and Mine groups, got %+v", response.Groups)
	}
	if response.Groups[0].Name != BuiltinGroup {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	if len(response.Groups[0].Scenes) != len(Names()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(response.Groups[0].Scenes), len(Names()))
	}
	if response.Groups[1].Name != "Mine" || response.Groups[1].Scenes[0].ID != "file:custom" {
		t.Errorf("Unexpected file group %+v", response.Groups[1])
	}
}
