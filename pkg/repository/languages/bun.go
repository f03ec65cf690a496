package languages

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jmcarbo/prek/pkg/git"
	"github.com/jmcarbo/prek/pkg/language"
)

// BunLanguage handles Bun environment setup. Bun has no bundled download
// manager in this implementation (unlike Node's nodeenv) — it follows the
// same "trust the system toolchain" pattern as RustLanguage: a bun binary
// found on PATH is required, and the hook environment only wraps the
// global-dependency install step.
type BunLanguage struct {
	*language.Base
}

// NewBunLanguage creates a new Bun language handler
func NewBunLanguage() *BunLanguage {
	return &BunLanguage{
		Base: language.NewBase(
			"Bun",
			"bun",
			"--version",
			"https://bun.sh/",
		),
	}
}

// GetDefaultVersion returns 'system' if bun is installed, otherwise 'default'
func (b *BunLanguage) GetDefaultVersion() string {
	if b.IsRuntimeAvailable() {
		return language.VersionSystem
	}
	return language.VersionDefault
}

// PreInitializeEnvironmentWithRepoInfo shows the initialization message and creates the environment directory
func (b *BunLanguage) PreInitializeEnvironmentWithRepoInfo(
	cacheDir, version, repoPath, repoURL string,
	additionalDeps []string,
) error {
	return b.CacheAwarePreInitializeEnvironmentWithRepoInfo(
		cacheDir, version, repoPath, repoURL, additionalDeps, "bun")
}

// SetupEnvironmentWithRepoInfo sets up a Bun environment with repository URL information
func (b *BunLanguage) SetupEnvironmentWithRepoInfo(
	cacheDir, version, repoPath, repoURL string,
	additionalDeps []string,
) (string, error) {
	return b.SetupEnvironmentWithRepo(cacheDir, version, repoPath, repoURL, additionalDeps)
}

// SetupEnvironmentWithRepo sets up a Bun environment in the repository directory
func (b *BunLanguage) SetupEnvironmentWithRepo(
	cacheDir, version, repoPath, _ string, // repoURL is unused
	additionalDeps []string,
) (string, error) {
	if version != language.VersionDefault && version != language.VersionSystem {
		version = language.VersionDefault
	}

	if repoPath == "" {
		if cacheDir == "" {
			return "", fmt.Errorf("both repoPath and cacheDir cannot be empty")
		}
		repoPath = cacheDir
	}

	envDirName := language.GetRepositoryEnvironmentName("bun", version)
	envPath := filepath.Join(repoPath, envDirName)

	if b.CheckEnvironmentHealth(envPath) {
		return envPath, nil
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := os.RemoveAll(envPath); err != nil {
			return "", fmt.Errorf("failed to remove broken environment: %w", err)
		}
	}

	if err := b.setupBunEnvironment(envPath); err != nil {
		return "", err
	}

	if len(additionalDeps) > 0 {
		if err := b.InstallDependencies(envPath, additionalDeps); err != nil {
			return "", fmt.Errorf("failed to install bun dependencies: %w", err)
		}
	}

	return envPath, nil
}

// setupBunEnvironment creates the bin/lib layout and symlinks the system
// bun binary into it, mirroring the teacher's bin-dir-plus-symlink pattern
// used for Node's npm global installs.
func (b *BunLanguage) setupBunEnvironment(envPath string) error {
	if !b.IsRuntimeAvailable() {
		return fmt.Errorf("bun runtime not found. Please install bun to use bun hooks.\n"+
			"Installation instructions: %s", b.InstallURL)
	}

	if err := b.CreateEnvironmentDirectory(envPath); err != nil {
		return fmt.Errorf("failed to create bun environment directory: %w", err)
	}

	binDir := filepath.Join(envPath, "bin")
	if err := os.MkdirAll(binDir, 0o750); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}
	libDir := filepath.Join(envPath, "lib")
	if err := os.MkdirAll(libDir, 0o750); err != nil {
		return fmt.Errorf("failed to create lib directory: %w", err)
	}

	bunPath, err := exec.LookPath("bun")
	if err != nil {
		return fmt.Errorf("bun not found on PATH: %w", err)
	}

	linkName := "bun"
	if runtime.GOOS == windowsOS {
		linkName += ".exe"
	}
	linkPath := filepath.Join(binDir, linkName)
	if _, err := os.Lstat(linkPath); err == nil {
		_ = os.Remove(linkPath)
	}
	if err := os.Symlink(bunPath, linkPath); err != nil {
		// Windows often can't create symlinks without elevated privileges;
		// fall back to copying the binary, matching create_symlink_or_copy.
		data, readErr := os.ReadFile(bunPath) // #nosec G304 -- bunPath resolved via exec.LookPath
		if readErr != nil {
			return fmt.Errorf("failed to read bun binary for copy fallback: %w", readErr)
		}
		if writeErr := os.WriteFile(linkPath, data, 0o750); writeErr != nil { //nolint:gosec
			return fmt.Errorf("failed to symlink or copy bun binary: %w", err)
		}
	}

	return nil
}

// InstallDependencies installs global bun packages into the hook environment via BUN_INSTALL
func (b *BunLanguage) InstallDependencies(envPath string, deps []string) error {
	if len(deps) == 0 {
		return nil
	}

	binDir := filepath.Join(envPath, "bin")
	bunBin := filepath.Join(binDir, "bun")
	if runtime.GOOS == windowsOS {
		bunBin += ".exe"
	}
	if _, err := os.Stat(bunBin); err != nil {
		bunBin = "bun"
	}

	env := b.getBunEnvVars(envPath)
	args := append([]string{"install", "-g"}, deps...)
	cmd := exec.Command(bunBin, args...) // #nosec G204 -- args are hook-configured dependency names
	cmd.Dir = envPath
	cmd.Env = env
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("bun install -g failed: %w: %s", err, string(out))
	}

	return nil
}

// getBunEnvVars builds the subprocess environment for bun invocations: PATH
// prepended with the env's bin dir, and BUN_INSTALL pointed at envPath so
// `bun install -g` installs into the hook environment instead of the
// system-wide bun install location.
func (b *BunLanguage) getBunEnvVars(envPath string) []string {
	env := git.GetCleanEnvironment()

	binDir := filepath.Join(envPath, "bin")
	currentPath := os.Getenv("PATH")
	newPath := fmt.Sprintf("%s%c%s", binDir, os.PathListSeparator, currentPath)

	env = setEnvVarSlice(env, "PATH", newPath)
	env = setEnvVarSlice(env, "BUN_INSTALL", envPath)

	return env
}

// setEnvVarSlice sets or replaces key=value in an os.Environ()-style slice.
func setEnvVarSlice(env []string, key, value string) []string {
	prefix := key + "="
	result := make([]string, 0, len(env)+1)
	found := false
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			if !found {
				result = append(result, prefix+value)
				found = true
			}
			continue
		}
		result = append(result, e)
	}
	if !found {
		result = append(result, prefix+value)
	}
	return result
}

// CheckHealth verifies the bun environment is working correctly
func (b *BunLanguage) CheckHealth(envPath, version string) error {
	if version == language.VersionSystem {
		if _, err := exec.LookPath("bun"); err != nil {
			return fmt.Errorf("system bun not available: %w", err)
		}
		return nil
	}

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return fmt.Errorf("environment directory does not exist: %s", envPath)
	}

	bunBin := filepath.Join(envPath, "bin", "bun")
	if runtime.GOOS == windowsOS {
		bunBin += ".exe"
	}
	if _, err := os.Stat(bunBin); err != nil {
		return fmt.Errorf("bun executable not found in environment: %w", err)
	}

	cmd := exec.Command(bunBin, "--version")
	cmd.Env = b.getBunEnvVars(envPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("`bun --version` failed: %w", err)
	}

	return nil
}

// GetExecutablePath returns the path to a bun-installed executable, falling back to PATH
func (b *BunLanguage) GetExecutablePath(envPath, executableName string) string {
	binDir := filepath.Join(envPath, "bin")
	execPath := filepath.Join(binDir, executableName)
	if runtime.GOOS == windowsOS {
		if exePath := execPath + ".exe"; fileExistsAt(exePath) {
			return exePath
		}
	}
	if fileExistsAt(execPath) {
		return execPath
	}
	return executableName
}

func fileExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
