package installer

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"shimbox/internal/config"
	"shimbox/internal/logger"
)

// githubRelease is the subset of the GitHub release JSON we consume.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// installFromGitHub resolves a release, downloads the asset matching the
// host OS/arch, extracts it and places the binary. Returns the install path.
func (i *Installer) installFromGitHub(tool config.Tool) (string, error) {
	repo := tool.Repo
	if repo == "" {
		return "", fmt.Errorf("tool %s: source is github but no repo configured", tool.Name)
	}
	tag := tool.Tag
	if tag == "" && tool.Version != "" {
		tag = "v" + tool.Version
	}

	url := releaseURL(repo, tag)
	logger.Debug("[DEBUG] Fetching GitHub release metadata: %s\n", url)

	resp, err := i.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch release for %s: %w", tool.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("fetch release for %s: HTTP status %d", tool.Name, resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release JSON for %s: %w", tool.Name, err)
	}
	logger.Debug("[DEBUG] Release %s has %d assets\n", release.TagName, len(release.Assets))

	assetNames := make([]string, len(release.Assets))
	urls := make(map[string]string, len(release.Assets))
	for n, a := range release.Assets {
		assetNames[n] = a.Name
		urls[a.Name] = a.BrowserDownloadURL
	}

	assetName := matchAsset(assetNames, runtime.GOOS, runtime.GOARCH)
	if assetName == "" {
		return "", fmt.Errorf("no asset for %s/%s in release %s of %s", runtime.GOOS, runtime.GOARCH, release.TagName, repo)
	}
	logger.Info("[INFO] Downloading %s from %s@%s\n", assetName, repo, release.TagName)

	tmpDir, err := i.tempDir()
	if err != nil {
		return "", err
	}
	defer i.cleanTempDir(tmpDir)

	archive := filepath.Join(tmpDir, path.Base(assetName))
	if err := i.download(urls[assetName], archive); err != nil {
		return "", err
	}
	return i.extractAndPlace(archive, tmpDir, tool.Name)
}

// releaseURL builds the API endpoint: a tagged release when tag is set,
// otherwise the latest release.
func releaseURL(repo, tag string) string {
	if tag != "" {
		return fmt.Sprintf("https://api.github.com/repos/%s/releases/tags/%s", repo, tag)
	}
	return fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", repo)
}

// osSynonyms and archSynonyms map Go platform names to the strings release
// asset filenames actually use.
var osSynonyms = map[string][]string{
	"darwin":  {"darwin", "macos", "macOS", "apple-darwin", "osx"},
	"linux":   {"linux", "unknown-linux"},
	"windows": {"windows", "win64", "pc-windows"},
}

var archSynonyms = map[string][]string{
	"amd64": {"amd64", "x86_64", "x64"},
	"arm64": {"arm64", "aarch64"},
	"386":   {"386", "i686", "x86"},
}

// matchAsset picks the first archive asset whose name mentions both the
// host OS and architecture (by any synonym). Case-insensitive.
func matchAsset(names []string, goos, goarch string) string {
	oses := osSynonyms[goos]
	if oses == nil {
		oses = []string{goos}
	}
	arches := archSynonyms[goarch]
	if arches == nil {
		arches = []string{goarch}
	}

	for _, name := range names {
		lower := strings.ToLower(name)
		if !isArchive(lower) {
			continue
		}
		if !containsAny(lower, oses) || !containsAny(lower, arches) {
			continue
		}
		return name
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
