package installer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"

	"shimbox/internal/config"
	"shimbox/internal/logger"
	"shimbox/internal/probe"
	"shimbox/internal/state"
)

// Installer puts missing catalog tools on the host. Every successful
// install or uninstall invalidates the tool's availability cache entry so
// the change is visible without restarting.
type Installer struct {
	cache  *probe.Cache
	st     *state.State
	client *http.Client

	// binDirs are tried in order when placing an extracted binary.
	binDirs []string
}

// New builds an installer over the given cache and state. Binaries land in
// /usr/local/bin when writable, falling back to ~/bin.
func New(cache *probe.Cache, st *state.State) *Installer {
	return &Installer{
		cache:  cache,
		st:     st,
		client: http.DefaultClient,
		binDirs: []string{
			"/usr/local/bin",
			filepath.Join(os.Getenv("HOME"), "bin"),
		},
	}
}

// Install puts the tool on the host using its configured source:
//   - "hint" (or empty): run the configured install hint command line
//     through the shell, so package-manager hints like "brew install jq"
//     work as written.
//   - "github": download a release asset matching the host OS/arch and
//     place the extracted binary in a bin directory.
//   - "url": download from a fixed URL; archives are extracted, bare
//     files are treated as the binary itself.
func (i *Installer) Install(tool config.Tool) error {
	logger.Debug("[DEBUG] Installing %s (source %q)\n", tool.Name, tool.Source)

	var installPath string
	var err error

	switch tool.Source {
	case "", "hint":
		err = i.runHint(tool)
	case "github":
		installPath, err = i.installFromGitHub(tool)
	case "url":
		installPath, err = i.installFromURL(tool)
	default:
		return fmt.Errorf("tool %s: unknown install source %q", tool.Name, tool.Source)
	}
	if err != nil {
		return err
	}

	if installPath != "" {
		i.st.Installed[tool.Name] = state.InstalledTool{
			Version:            tool.Version,
			InstallPath:        installPath,
			InstalledByShimbox: true,
		}
	}

	// The tool just appeared; drop any cached "unavailable".
	i.cache.Invalidate(tool.Binary())
	return nil
}

// Uninstall removes a tool that shimbox installed. Tools installed by other
// means are refused rather than guessed at.
func (i *Installer) Uninstall(name string) error {
	rec, ok := i.st.Installed[name]
	if !ok || !rec.InstalledByShimbox {
		return fmt.Errorf("%s was not installed by shimbox; remove it with its own package manager", name)
	}
	if rec.InstallPath == "" {
		return fmt.Errorf("%s has no recorded install path", name)
	}

	if err := os.Remove(rec.InstallPath); err != nil {
		return fmt.Errorf("remove %s: %w", rec.InstallPath, err)
	}
	delete(i.st.Installed, name)
	i.cache.Invalidate(name)
	logger.Info("[INFO] Removed %s (%s)\n", name, rec.InstallPath)
	return nil
}

// runHint executes the tool's install hint through the shell so pipes and
// flags in hints survive intact.
func (i *Installer) runHint(tool config.Tool) error {
	if tool.InstallHint == "" {
		return fmt.Errorf("tool %s has no install hint configured", tool.Name)
	}
	logger.Info("[INFO] Running install hint for %s: %s\n", tool.Name, tool.InstallHint)

	cmd := exec.Command("sh", "-c", tool.InstallHint)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install hint for %s failed: %w", tool.Name, err)
	}
	return nil
}

// installFromURL downloads tool.URL and installs the result.
func (i *Installer) installFromURL(tool config.Tool) (string, error) {
	if tool.URL == "" {
		return "", fmt.Errorf("tool %s: source is url but no url configured", tool.Name)
	}

	tmpDir, err := i.tempDir()
	if err != nil {
		return "", err
	}
	defer i.cleanTempDir(tmpDir)

	dest := filepath.Join(tmpDir, path.Base(tool.URL))
	if err := i.download(tool.URL, dest); err != nil {
		return "", err
	}

	if isArchive(dest) {
		return i.extractAndPlace(dest, tmpDir, tool.Name)
	}
	return i.placeBinary(dest)
}

// download fetches url into destPath.
func (i *Installer) download(url, destPath string) error {
	logger.Debug("[DEBUG] Downloading %s\n", url)
	resp, err := i.client.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", destPath, cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}

// extractAndPlace extracts an archive, locates the tool's executable inside
// it and copies it into the first writable bin dir. Returns the final path.
func (i *Installer) extractAndPlace(archive, workDir, toolName string) (string, error) {
	extracted, err := extractArchive(archive, workDir)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", archive, err)
	}

	info, err := os.Stat(extracted)
	if err != nil {
		return "", err
	}

	var binary string
	if info.IsDir() {
		binaries, err := findExecutables(extracted, toolName)
		if err != nil {
			return "", fmt.Errorf("no binary for %s in archive: %w", toolName, err)
		}
		binary = binaries[0]
	} else {
		binary = extracted
	}
	return i.placeBinary(binary)
}

// tempDir provisions a scratch directory for downloads and extraction.
func (i *Installer) tempDir() (string, error) {
	dir, err := os.MkdirTemp("", "shimbox-install-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return dir, nil
}

func (i *Installer) cleanTempDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("[WARN] Failed to clean up %s: %v\n", dir, err)
	}
}

// placeBinary copies a binary into the first bin dir that accepts it.
func (i *Installer) placeBinary(src string) (string, error) {
	var lastErr error
	for _, dir := range i.binDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			lastErr = err
			continue
		}
		dst := filepath.Join(dir, filepath.Base(src))
		if err := copyBinary(src, dst); err != nil {
			lastErr = err
			continue
		}
		logger.Info("[INFO] Installed %s\n", dst)
		return dst, nil
	}
	return "", fmt.Errorf("no writable bin directory: %w", lastErr)
}
