package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"glass-row", "Glass Row"},
		{"mirror_hall", "Mirror Hall"},
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
			name: "complete_metadata.yaml",
			content: `# Scene: Glass Row
# Variant: Deep
# Description: Five glass spheres in a row
# Group: Glass

canvas:
  width: 320`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Glass Row",
				DisplayName: "Glass Row - Deep",
				Description: "Five glass spheres in a row",
				Group:       "Glass",
				Type:        "yaml",
				Variant:     "Deep",
			},
		},
		{
			name: "partial_metadata.yaml",
			content: `# Scene: Mirrors
# Description: Facing mirrors
canvas:
  width: 320`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Mirrors",
				DisplayName: "Mirrors",
				Description: "Facing mirrors",
				Group:       "Scene Files",
				Type:        "yaml",
			},
		},
		{
			name:    "no_metadata.yaml",
			content: `canvas: {width: 320}`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "yaml",
			},
		},
		{
			name: "late_comment.yaml",
			content: `canvas: {width: 320}
# Scene: Ignored`,
			expected: SceneInfo{
				ID:          "file:late_comment",
				Name:        "Late Comment",
				DisplayName: "Late Comment",
				Group:       "Scene Files",
				Type:        "yaml",
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

func TestParseSceneMetadata_MissingFile(t *testing.T) {
	if _, err := ParseSceneMetadata(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Errorf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil {
		t.Error("ListSceneFiles() returned nil, expected empty slice")
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":    "# Scene: Beta\n# Group: Extra\ncanvas: {}\n",
		"a.yml":     "# Scene: Alpha\n# Group: Extra\ncanvas: {}\n",
		"notes.txt": "not a scene",
		"zzz.yaml":  "canvas: {}\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	var groupNames []string
	for _, group := range response.Groups {
		groupNames = append(groupNames, group.Name)
	}
	expectedGroups := []string{BuiltinGroup, "Extra", "Scene Files"}
	if strings.Join(groupNames, ",") != strings.Join(expectedGroups, ",") {
		t.Fatalf("Groups = %v, want %v", groupNames, expectedGroups)
	}

	builtin := response.Groups[0]
	if len(builtin.Scenes) != len(Names()) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtin.Scenes), len(Names()))
	}
	for _, info := range builtin.Scenes {
		if info.Type != "builtin" {
			t.Errorf("Built-in scene %s has type %q", info.ID, info.Type)
		}
		if _, err := ByName(info.ID); err != nil {
			t.Errorf("Built-in scene %s is not constructible: %v", info.ID, err)
		}
	}

	extra := response.Groups[1]
	if len(extra.Scenes) != 2 || extra.Scenes[0].Name != "Alpha" || extra.Scenes[1].Name != "Beta" {
		t.Errorf("Extra group = %+v, want Alpha then Beta", extra.Scenes)
	}
	for _, info := range extra.Scenes {
		if !strings.HasPrefix(info.ID, "file:") || info.FilePath == "" {
			t.Errorf("Scene file info incomplete: %+v", info)
		}
	}
}
