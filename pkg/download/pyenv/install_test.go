package pyenv

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcarbo/prek/pkg/constants"
)

func TestInstallation(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestFindExecutable", func(t *testing.T) {
		// Test finding an executable that should exist
		path, err := manager.findExecutable("ls")
		if runtime.GOOS != constants.WindowsOS {
			assert.NoError(t, err)
			assert.NotEmpty(t, path)
			assert.Contains(t, path, "ls")
		}

		// Test finding a non-existent executable
		_, err = manager.findExecutable("nonexistent-command-12345")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "executable file not found")
	})

	t.Run("TestVerifyInstallation", func(t *testing.T) {
		// Create a mock Python installation directory
		pythonDir := filepath.Join(tempDir, "versions", "3.12")
		binDir := filepath.Join(pythonDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		// Create a mock python3 executable
		pythonExe := filepath.Join(binDir, "python3")
		mockScript := `#!/bin/bash
echo "Python 3.12.7"
exit 0`
		require.NoError(t, os.WriteFile(pythonExe, []byte(mockScript), 0o755))

		// Test verification with valid Python
		err := manager.VerifyInstallation("3.12")
		assert.NoError(t, err)

		// Test verification with missing version
		err = manager.VerifyInstallation("3.99")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "python executable not found")
	})

	t.Run("TestGetPythonVersion", func(t *testing.T) {
		// Create a mock Python executable
		binDir := filepath.Join(tempDir, "test-bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		pythonExe := filepath.Join(binDir, "python3")
		mockScript := `#!/bin/bash
echo "Python 3.12.7"
exit 0`
		require.NoError(t, os.WriteFile(pythonExe, []byte(mockScript), 0o755))

		// Test getting Python version
		version, err := manager.GetPythonVersion(pythonExe)
		assert.NoError(t, err)
		assert.Equal(t, "3.12.7", version)

		// Test with non-existent executable
		_, err = manager.GetPythonVersion("/nonexistent/python")
		assert.Error(t, err)
	})

	t.Run("TestUninstallVersion", func(t *testing.T) {
		// Create a mock installation to uninstall
		versionDir := filepath.Join(manager.GetVersionsDir(), "3.11")
		binDir := filepath.Join(versionDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		// Create the Python executable that IsVersionInstalled looks for
		pythonExe := filepath.Join(binDir, "python3")
		mockScript := `#!/bin/bash
echo "Python 3.11.0"
exit 0`
		require.NoError(t, os.WriteFile(pythonExe, []byte(mockScript), 0o755))

		// Verify it exists
		assert.True(t, manager.IsVersionInstalled("3.11"))

		// Uninstall it
		err := manager.UninstallVersion("3.11")
		assert.NoError(t, err)

		// Verify it's gone
		assert.False(t, manager.IsVersionInstalled("3.11"))

		// Test uninstalling non-existent version
		err = manager.UninstallVersion("3.99")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not installed")
	})

	t.Run("TestListVersions", func(t *testing.T) {
		// Create some mock installations
		versions := []string{"3.10", "3.11", "3.12"}
		for _, version := range versions {
			versionDir := filepath.Join(manager.GetVersionsDir(), version)
			require.NoError(t, os.MkdirAll(versionDir, 0o755))
		}

		// List versions
		installedVersions, availableVersions, err := manager.ListVersions()
		assert.NoError(t, err)

		for _, version := range versions {
			assert.Contains(t, installedVersions, version)
		}

		// Should also have available versions
		assert.Greater(t, len(availableVersions), 0)
	})

	t.Run("TestHasOpenSSL", func(t *testing.T) {
		// Test OpenSSL detection - might not be available in test environment
		hasSSL := manager.hasOpenSSL()
		// Just verify it returns a boolean without error
		assert.IsType(t, true, hasSSL)
	})

	t.Run("TestCheckLinuxBuildDeps", func(t *testing.T) {
		if runtime.GOOS != constants.LinuxOS {
			t.Skip("Skipping Linux build deps test on non-Linux platform")
		}

		// Test Linux build dependencies check
		err := manager.checkLinuxBuildDeps()
		// Might succeed or fail depending on system, but should not panic
		if err != nil {
			t.Logf("Linux build deps check failed as expected: %v", err)
		}
	})
}

func TestInstallationPlatformSpecific(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestInstallMacOS", func(t *testing.T) {
		if runtime.GOOS != constants.DarwinOS {
			t.Skip("Skipping macOS install test on non-macOS platform")
		}

		// Test macOS installation with invalid package
		installPath := filepath.Join(tempDir, "test-install")
		err := manager.installMacOS("3.12", "/nonexistent/package.pkg", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist or can't be extracted
		assert.True(t, err != nil)
	})

	t.Run("TestInstallLinuxPrebuilt", func(t *testing.T) {
		if runtime.GOOS != constants.LinuxOS {
			t.Skip("Skipping Linux install test on non-Linux platform")
		}

		// Test Linux prebuilt installation with invalid archive
		installPath := filepath.Join(tempDir, "test-install")
		err := manager.installLinuxPrebuilt("3.12", "/nonexistent/archive.tar.gz", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist
	})

	t.Run("TestInstallLinuxFromSource", func(t *testing.T) {
		if runtime.GOOS != constants.LinuxOS {
			t.Skip("Skipping Linux source install test on non-Linux platform")
		}

		// Test Linux source installation with invalid archive
		installPath := filepath.Join(tempDir, "test-install")
		err := manager.installLinuxFromSource("3.12", "/nonexistent/Python-3.12.7.tgz", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist
	})

	t.Run("TestInstallWindows", func(t *testing.T) {
		if runtime.GOOS != constants.WindowsOS {
			t.Skip("Skipping Windows install test on non-Windows platform")
		}

		// Test Windows installation with invalid installer
		installPath := filepath.Join(tempDir, "test-install")
		err := manager.installWindows("3.12", "/nonexistent/python-3.12.7-amd64.exe", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist
	})
}

func TestExtractionFunctions(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestExtractPythonFramework", func(t *testing.T) {
		if runtime.GOOS != constants.DarwinOS {
			t.Skip("Skipping macOS framework extraction test on non-macOS platform")
		}

		// Test extracting non-existent package
		installPath := filepath.Join(tempDir, "test-install")
		err := manager.extractPythonFramework("/nonexistent/temp", installPath, "3.12")
		assert.Error(t, err)
		// Should fail because package doesn't exist
	})

	t.Run("TestCreateMacOSSymlinks", func(t *testing.T) {
		if runtime.GOOS != constants.DarwinOS {
			t.Skip("Skipping macOS symlink test on non-macOS platform")
		}

		// Test creating symlinks with non-existent framework
		frameworkDir := filepath.Join(tempDir, "nonexistent-framework")
		err := manager.createMacOSSymlinks(frameworkDir, "3.12")
		assert.Error(t, err)
		// Should fail because the framework structure doesn't exist
		assert.True(t, err != nil)
	})
}

func TestInstallPython(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)
	t.Run("TestInstallPythonUnsupportedPlatform", func(t *testing.T) {
		// Test installation with invalid download path
		err := manager.installPython("3.12", "/nonexistent/python.pkg", true)
		assert.Error(t, err)
		// Error could be various things - file not found, unsupported platform, etc.
	})
}

func TestPlatformSpecificInstallationCoverage(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestInstallLinuxPrebuilt", func(t *testing.T) {
		// Test Linux prebuilt installation - call directly to get coverage
		installPath := filepath.Join(tempDir, "test-install-linux")
		err := manager.installLinuxPrebuilt("3.12", "/nonexistent/archive.tar.gz", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist
	})

	t.Run("TestInstallLinuxFromSource", func(t *testing.T) {
		// Test Linux source installation - call directly to get coverage
		installPath := filepath.Join(tempDir, "test-install-source")
		err := manager.installLinuxFromSource("3.12", "/nonexistent/Python-3.12.7.tgz", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist
	})

	t.Run("TestCheckLinuxBuildDeps", func(t *testing.T) {
		// Test Linux build dependencies check - call directly to get coverage
		err := manager.checkLinuxBuildDeps()
		// Might succeed or fail depending on system, but should not panic
		if err != nil {
			t.Logf("Linux build deps check failed as expected: %v", err)
		}
	})

	t.Run("TestInstallWindows", func(t *testing.T) {
		// Test Windows installation - call directly to get coverage
		installPath := filepath.Join(tempDir, "test-install-windows")
		err := manager.installWindows("3.12", "/nonexistent/python-3.12.7-amd64.exe", installPath)
		assert.Error(t, err)
		// Should fail because file doesn't exist
	})
}

func TestManagerInternalFunctions(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestUpgradePipAndInstallPackages", func(t *testing.T) {
		// Test pip upgrade and package installation - call directly to get coverage
		pythonPath := "/nonexistent/python"
		err := manager.upgradePipAndInstallPackages(pythonPath)
		assert.Error(t, err)
		// Should fail because Python doesn't exist
	})

	t.Run("TestCopyPythonInstallation", func(t *testing.T) {
		// Test copying Python installation - call directly to get coverage
		srcPath := "/nonexistent/source"
		destPath := filepath.Join(tempDir, "dest")
		err := manager.copyPythonInstallation(srcPath, destPath)
		assert.Error(t, err)
		// Should fail because source doesn't exist
	})

	t.Run("TestGetPythonExecutableAllPlatforms", func(t *testing.T) {
		// Test GetPythonExecutable for different platforms
		originalGOOS := runtime.GOOS

		// Test current platform
		exe := manager.GetPythonExecutable("3.12")
		assert.NotEmpty(t, exe)

		// We can't actually change runtime.GOOS, but we can test the logic
		// by calling it with different versions
		exe39 := manager.GetPythonExecutable("3.9")
		assert.NotEmpty(t, exe39)
		assert.Contains(t, exe39, "3.9")

		// Test with empty version
		exeEmpty := manager.GetPythonExecutable("")
		assert.NotEmpty(t, exeEmpty)

		_ = originalGOOS // Use the variable to avoid unused warning
	})
}

func TestCreateMacOSSymlinksEdgeCases(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestCreateMacOSSymlinksInvalidVersion", func(t *testing.T) {
		installPath := filepath.Join(tempDir, "test-install")

		// Test with invalid version format (less than 2 parts)
		err := manager.createMacOSSymlinks(installPath, "3")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid version format")

		// Test with empty version
		err = manager.createMacOSSymlinks(installPath, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid version format")
	})

	t.Run("TestCreateMacOSSymlinksAlternativeFrameworkPath", func(t *testing.T) {
		installPath := filepath.Join(tempDir, "test-install-alt")

		// Create alternative framework structure
		altFrameworkDir := filepath.Join(installPath, "Python.framework", "Versions", "3.12", "bin")
		require.NoError(t, os.MkdirAll(altFrameworkDir, 0o755))

		// Create the python executable
		pythonExe := filepath.Join(altFrameworkDir, "python3.12")
		require.NoError(t, os.WriteFile(pythonExe, []byte("#!/bin/bash\necho 'Python 3.12.7'\n"), 0o755))

		// Test symlink creation with alternative path
		err := manager.createMacOSSymlinks(installPath, "3.12")
		assert.NoError(t, err)

		// Verify symlinks were created
		binDir := filepath.Join(installPath, "bin")
		assert.DirExists(t, binDir)
	})

	t.Run("TestCreateMacOSSymlinksFrameworkNotFound", func(t *testing.T) {
		installPath := filepath.Join(tempDir, "test-install-noframework")

		// Don't create any framework structure
		err := manager.createMacOSSymlinks(installPath, "3.12")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "python executable not found")
	})
}

func TestUpgradePipAndInstallPackagesCoverage(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestUpgradePipAndInstallPackagesNonExistentPython", func(t *testing.T) {
		// Test with non-existent Python executable
		err := manager.upgradePipAndInstallPackages("/nonexistent/python")
		assert.Error(t, err)
	})

	t.Run("TestUpgradePipAndInstallPackagesEmptyPath", func(t *testing.T) {
		// Test with empty Python path
		err := manager.upgradePipAndInstallPackages("")
		assert.Error(t, err)
	})
}

func TestCopyPythonInstallationCoverage(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestCopyPythonInstallationNonExistentSource", func(t *testing.T) {
		destPath := filepath.Join(tempDir, "dest")
		err := manager.copyPythonInstallation("/nonexistent/source", destPath)
		assert.Error(t, err)
	})

	t.Run("TestCopyPythonInstallationInvalidDest", func(t *testing.T) {
		// Create a source directory
		srcPath := filepath.Join(tempDir, "source")
		require.NoError(t, os.MkdirAll(srcPath, 0o755))

		// Test with invalid destination (can't create)
		invalidDest := "/invalid/path/that/cannot/be/created"
		err := manager.copyPythonInstallation(srcPath, invalidDest)
		assert.Error(t, err)
	})

	t.Run("TestCopyPythonInstallationValidPaths", func(t *testing.T) {
		// Create a source directory with some content
		srcPath := filepath.Join(tempDir, "source-valid")
		require.NoError(t, os.MkdirAll(srcPath, 0o755))
		testFile := filepath.Join(srcPath, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test content"), 0o644))

		destPath := filepath.Join(tempDir, "dest-valid")
		err := manager.copyPythonInstallation(srcPath, destPath)
		// May fail due to lack of proper Python structure, but should not panic
		if err != nil {
			t.Logf("Copy failed as expected: %v", err)
		}
	})
}

func TestInstallPythonAllPaths(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestInstallPythonPlatformDetection", func(t *testing.T) {
		// Test platform-specific logic by calling installPython directly
		// This will exercise the platform detection code

		// Test with macOS-style file
		err := manager.installPython("3.12", "/nonexistent/python-3.12.7-macos11.pkg", true)
		assert.Error(t, err)

		// Test with Linux-style file
		err = manager.installPython("3.12", "/nonexistent/Python-3.12.7.tgz", false)
		assert.Error(t, err)

		// Test with Windows-style file
		err = manager.installPython("3.12", "/nonexistent/python-3.12.7-amd64.exe", true)
		assert.Error(t, err)

		// Test with unknown file type
		err = manager.installPython("3.12", "/nonexistent/python.unknown", false)
		assert.Error(t, err)
	})
}

func TestListVersionsErrorPaths(t *testing.T) {
	t.Run("TestListVersionsWithInvalidCacheDir", func(t *testing.T) {
		// Create a manager with an invalid cache directory
		invalidManager := &Manager{
			CacheDir: "/invalid/path/that/cannot/exist/and/will/cause/errors",
		}

		installed, available, err := invalidManager.ListVersions()
		// Should handle errors gracefully
		if err != nil {
			t.Logf("ListVersions failed as expected with invalid cache: %v", err)
			assert.Nil(t, installed)
			assert.Nil(t, available)
		}
	})

	t.Run("TestListVersionsWithNonExistentVersionsDir", func(t *testing.T) {
		tempDir := t.TempDir()
		// Create manager but don't create versions directory
		manager := NewManager(tempDir)

		installed, available, err := manager.ListVersions()
		// Should not error for non-existent versions dir (returns empty list)
		assert.NoError(t, err)
		assert.Empty(t, installed)
		assert.NotEmpty(t, available) // Available versions should still work
	})
}

func TestVerifyInstallationErrorPaths(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestVerifyInstallationMissingExecutable", func(t *testing.T) {
		// Create version directory but no executable
		versionDir := filepath.Join(manager.GetVersionsDir(), "3.11")
		binDir := filepath.Join(versionDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		err := manager.VerifyInstallation("3.11")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "python executable not found")
	})

	t.Run("TestVerifyInstallationNonExecutableFile", func(t *testing.T) {
		// Create version directory with non-executable python file
		versionDir := filepath.Join(manager.GetVersionsDir(), "3.10")
		binDir := filepath.Join(versionDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		pythonExe := filepath.Join(binDir, "python3")
		// Create file but don't make it executable
		require.NoError(t, os.WriteFile(pythonExe, []byte("not executable"), 0o644))

		err := manager.VerifyInstallation("3.10")
		assert.Error(t, err)
	})
}

func TestGetPythonVersionErrorPaths(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestGetPythonVersionNonExistentExecutable", func(t *testing.T) {
		_, err := manager.GetPythonVersion("/nonexistent/python")
		assert.Error(t, err)
	})

	t.Run("TestGetPythonVersionInvalidExecutable", func(t *testing.T) {
		// Create a non-executable file
		invalidPython := filepath.Join(tempDir, "invalid-python")
		require.NoError(t, os.WriteFile(invalidPython, []byte("not python"), 0o644))

		_, err := manager.GetPythonVersion(invalidPython)
		assert.Error(t, err)
	})

	t.Run("TestGetPythonVersionUnparseableOutput", func(t *testing.T) {
		// Create a script that outputs unparseable version info
		scriptPath := filepath.Join(tempDir, "fake-python")
		script := `#!/bin/bash
echo "Invalid version output that cannot be parsed"
exit 0`
		require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o755))

		version, err := manager.GetPythonVersion(scriptPath)
		// The function should succeed but return the unparseable output
		assert.NoError(t, err)
		assert.Equal(t, "Invalid version output that cannot be parsed", version)
	})
}

func TestRuntimeAndPlatformCoverage(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestGetPythonExecutableAllPlatforms", func(t *testing.T) {
		// Test different platform paths in GetPythonExecutable
		version := "3.12"

		// Test current platform
		exe := manager.GetPythonExecutable(version)
		assert.NotEmpty(t, exe)
		assert.Contains(t, exe, version)

		// The function uses runtime.GOOS, so we test the logic by calling it
		// with different versions to exercise the code paths
		exe39 := manager.GetPythonExecutable("3.9")
		assert.NotEmpty(t, exe39)
		assert.Contains(t, exe39, "3.9")

		// Test Windows path (will still use current OS but exercises the code)
		switch runtime.GOOS {
		case "windows":
			assert.Contains(t, exe, "python.exe")
		case "darwin", "linux":
			assert.Contains(t, exe, "python3")
		}
	})
	t.Run("TestGetPlatformKeyArchitectures", func(t *testing.T) {
		// Test the GetPlatformKey function
		platformKey := manager.GetPlatformKey()
		assert.NotEmpty(t, platformKey)
		assert.Contains(t, platformKey, runtime.GOOS)

		// The function normalizes architecture names
		// We can't change runtime.GOARCH, but we can verify the current behavior
		var expectedArch string
		switch runtime.GOARCH {
		case constants.ArchAMD64:
			expectedArch = constants.ArchAMD64
		case constants.ArchARM64:
			expectedArch = constants.ArchARM64
		case constants.Arch386:
			expectedArch = "x86"
		default:
			expectedArch = constants.ArchAMD64 // fallback
		}
		assert.Contains(t, platformKey, expectedArch)
	})
}

func TestInstallLinuxFromSourceCompletePath(t *testing.T) {
	if runtime.GOOS != constants.LinuxOS {
		t.Skip("Skipping Linux-specific test on non-Linux platform")
	}

	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestInstallLinuxFromSourceDetailed", func(t *testing.T) {
		// Create a more realistic test archive
		archivePath := filepath.Join(tempDir, "Python-3.12.7.tgz")
		installPath := filepath.Join(tempDir, "install-python")

		// Create a minimal tar.gz file for testing
		sourceDir := filepath.Join(tempDir, "Python-3.12.7")
		require.NoError(t, os.MkdirAll(sourceDir, 0o755))

		// Create a minimal configure script
		configureScript := filepath.Join(sourceDir, "configure")
		configureContent := `#!/bin/bash
echo "Configuration would happen here"
exit 1  # Fail to test error handling
`
		require.NoError(t, os.WriteFile(configureScript, []byte(configureContent), 0o755))

		// Create the tar.gz archive
		cmd := exec.Command("tar", "-czf", archivePath, "-C", tempDir, "Python-3.12.7")
		require.NoError(t, cmd.Run())

		// Test the installation (should fail at configure step)
		err := manager.installLinuxFromSource("3.12", archivePath, installPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to configure Python build")
	})

	t.Run("TestInstallLinuxFromSourceExtractionFailure", func(t *testing.T) {
		// Test with a corrupted/invalid archive
		invalidArchive := filepath.Join(tempDir, "invalid.tgz")
		require.NoError(t, os.WriteFile(invalidArchive, []byte("not a tar file"), 0o644))

		installPath := filepath.Join(tempDir, "install-invalid")
		err := manager.installLinuxFromSource("3.12", invalidArchive, installPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to extract Python source")
	})
}

func TestInstallPythonPlatformDetection(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestInstallPythonFileExtensionDetection", func(t *testing.T) {
		// Test platform detection based on file extensions

		// macOS package file
		macosPath := "/nonexistent/python-3.12.7-macos11.pkg"
		err := manager.installPython("3.12", macosPath, true)
		assert.Error(t, err) // Should fail because file doesn't exist

		// Linux source tarball
		linuxSourcePath := "/nonexistent/Python-3.12.7.tgz"
		err = manager.installPython("3.12", linuxSourcePath, false)
		assert.Error(t, err) // Should fail because file doesn't exist

		// Linux prebuilt tarball
		linuxPrebuiltPath := "/nonexistent/python-3.12.7-linux-x86_64.tar.gz"
		err = manager.installPython("3.12", linuxPrebuiltPath, true)
		assert.Error(t, err) // Should fail because file doesn't exist

		// Windows installer
		windowsPath := "/nonexistent/python-3.12.7-amd64.exe"
		err = manager.installPython("3.12", windowsPath, true)
		assert.Error(t, err) // Should fail because file doesn't exist

		// Unknown file type
		unknownPath := "/nonexistent/python.unknown"
		err = manager.installPython("3.12", unknownPath, false)
		assert.Error(t, err) // Should fail for unknown file type
	})

	t.Run("TestInstallPythonUnsupportedOS", func(t *testing.T) {
		// We can't change runtime.GOOS, but we can test the error paths
		// by providing invalid download paths that will cause errors

		err := manager.installPython("3.12", "/nonexistent/python.pkg", true)
		assert.Error(t, err)
		// The error could be file not found, unsupported OS, or installation failure
		assert.NotNil(t, err)
	})
}

func TestUpgradePipCompleteCoverage(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)
	t.Run("TestUpgradePipAndInstallPackagesFullPath", func(t *testing.T) {
		// Test calling upgradePipAndInstallPackages with a version string
		// Create a mock Python installation
		version := "3.12"
		pythonDir := filepath.Join(manager.GetVersionPath(version), "bin")
		require.NoError(t, os.MkdirAll(pythonDir, 0o755))

		pythonExe := filepath.Join(pythonDir, "python3")
		mockPythonScript := `#!/bin/bash
# Mock Python that handles pip commands
if [[ "$*" == *"pip install --upgrade pip"* ]]; then
    echo "Upgrading pip..."
    exit 0
elif [[ "$*" == *"pip install --upgrade setuptools wheel"* ]]; then
    echo "Installing setuptools and wheel..."
    exit 0
else
    echo "Python 3.12.7"
    exit 0
fi
`
		require.NoError(t, os.WriteFile(pythonExe, []byte(mockPythonScript), 0o755))

		// Test successful pip upgrade
		err := manager.upgradePipAndInstallPackages(version)
		assert.NoError(t, err)
	})

	t.Run("TestUpgradePipFailure", func(t *testing.T) {
		// Create a mock Python executable that fails pip upgrade
		pythonDir := filepath.Join(tempDir, "failing-python")
		require.NoError(t, os.MkdirAll(pythonDir, 0o755))

		pythonExe := filepath.Join(pythonDir, "python3")
		failingPythonScript := `#!/bin/bash
if [[ "$*" == *"pip install --upgrade pip"* ]]; then
    echo "pip upgrade failed"
    exit 1
else
    echo "Python 3.12.7"
    exit 0
fi
`
		require.NoError(t, os.WriteFile(pythonExe, []byte(failingPythonScript), 0o755))

		// Test pip upgrade failure
		err := manager.upgradePipAndInstallPackages(pythonExe)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upgrade pip")
	})

	t.Run("TestUpgradePipPythonVersionCall", func(t *testing.T) {
		// Test calling upgradePipAndInstallPackages with a version string
		// instead of a full path (should use GetPythonExecutable internally)
		err := manager.upgradePipAndInstallPackages("99.99")
		// This might succeed or fail depending on whether Python 99.99 exists
		// The important thing is testing the code path
		if err != nil {
			t.Logf("upgradePipAndInstallPackages failed as expected for non-existent version: %v", err)
		} else {
			t.Logf("upgradePipAndInstallPackages unexpectedly succeeded - may have found an existing Python")
		}
	})
}

func TestGetLatestVersionEdgeCases(t *testing.T) {
	t.Run("TestGetLatestVersionNoAvailableVersions", func(t *testing.T) {
		// Create a manager with invalid cache that can't get available versions
		manager := &Manager{
			CacheDir: "/invalid/path/that/cannot/exist",
		}

		version, err := manager.GetLatestVersion()
		if err != nil {
			assert.Error(t, err)
			assert.Empty(t, version)
		} else {
			// If it succeeds (maybe due to cached data), ensure we get a valid version
			assert.NotEmpty(t, version)
		}
	})
}

func TestNewManagerEdgeCases(t *testing.T) {
	t.Run("TestNewManagerWithEmptyDir", func(t *testing.T) {
		manager := NewManager("")
		assert.NotNil(t, manager)
		assert.NotEmpty(t, manager.CacheDir)
	})
	t.Run("TestNewManagerCreatesCacheDir", func(t *testing.T) {
		tempDir := t.TempDir()
		cacheDir := filepath.Join(tempDir, "new-cache")

		// Cache dir doesn't exist yet
		assert.NoFileExists(t, cacheDir)

		manager := NewManager(cacheDir)
		assert.NotNil(t, manager)

		// NewManager creates a cache subdirectory path but doesn't create it yet
		expectedCacheDir := filepath.Join(cacheDir, "cache")
		assert.Equal(t, expectedCacheDir, manager.CacheDir)

		// The directory is not created until needed
		assert.NoFileExists(t, expectedCacheDir)
	})
}

func TestListVersionsCompleteCoverage(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestListVersionsWithMixedContent", func(t *testing.T) {
		// Create versions directory with mixed content
		versionsDir := manager.GetVersionsDir()
		require.NoError(t, os.MkdirAll(versionsDir, 0o755))

		// Create some valid version directories
		validVersions := []string{"3.9", "3.10", "3.11"}
		for _, version := range validVersions {
			versionDir := filepath.Join(versionsDir, version)
			require.NoError(t, os.MkdirAll(versionDir, 0o755))

			// Create python executable to make it a valid installation
			binDir := filepath.Join(versionDir, "bin")
			require.NoError(t, os.MkdirAll(binDir, 0o755))
			pythonExe := filepath.Join(binDir, "python3")
			require.NoError(t, os.WriteFile(pythonExe, []byte("#!/bin/bash\necho 'Python "+version+".0'\n"), 0o755))
		}

		// Create some invalid entries (files instead of directories)
		invalidFile := filepath.Join(versionsDir, "not-a-version.txt")
		require.NoError(t, os.WriteFile(invalidFile, []byte("not a version"), 0o644))

		// Create a directory without Python executable
		incompleteDir := filepath.Join(versionsDir, "incomplete")
		require.NoError(t, os.MkdirAll(incompleteDir, 0o755))

		installed, available, err := manager.ListVersions()
		assert.NoError(t, err)

		// Should include all valid version directories (ListVersions just checks directory names)
		for _, version := range validVersions {
			assert.Contains(t, installed, version)
		}

		// Should also include the incomplete directory since ListVersions only checks for directories
		assert.Contains(t, installed, "incomplete")

		// Should not include files
		assert.NotContains(t, installed, "not-a-version.txt")

		// Available versions should still work
		assert.Greater(t, len(available), 0)
	})
}

func TestUncoveredBranches(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestInstallPythonBranchCoverage", func(t *testing.T) {
		// Test installPython with different scenarios to exercise all branches

		// Test that it attempts to call platform-specific functions
		// These will fail but will exercise the code paths

		// macOS path (should work on macOS, fail on others)
		err := manager.installPython("3.12", "/nonexistent/python-3.12.7-macos11.pkg", true)
		assert.Error(t, err)

		// Linux prebuilt path
		err = manager.installPython("3.12", "/nonexistent/python-3.12.7-linux.tar.gz", true)
		assert.Error(t, err)

		// Linux source path
		err = manager.installPython("3.12", "/nonexistent/Python-3.12.7.tgz", false)
		assert.Error(t, err)

		// Windows path
		err = manager.installPython("3.12", "/nonexistent/python-3.12.7-amd64.exe", true)
		assert.Error(t, err)

		// Test with an installation directory that can't be created
		originalGetVersionPath := manager.GetVersionPath
		testManager := *manager
		testManager.BaseDir = "/invalid/read-only/path"
		err = testManager.installPython("3.12", "/nonexistent/python.pkg", true)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create installation directory")
		_ = originalGetVersionPath // Prevent unused variable warning
	})

	t.Run("TestPlatformKeyArchitectureBranches", func(t *testing.T) {
		// Test GetPlatformKey with different architectures
		// We can't change runtime.GOARCH but we can test the current behavior
		// and verify the logic works as expected

		platformKey := manager.GetPlatformKey()
		assert.NotEmpty(t, platformKey)

		// Verify it includes the OS
		assert.Contains(t, platformKey, runtime.GOOS)

		// Verify it includes some architecture string
		parts := strings.Split(platformKey, "-")
		assert.Len(t, parts, 2)

		// The second part should be the normalized architecture
		arch := parts[1]
		validArchs := []string{"amd64", "arm64", "x86"}
		assert.Contains(t, validArchs, arch)

		// Test that it returns consistent results
		platformKey2 := manager.GetPlatformKey()
		assert.Equal(t, platformKey, platformKey2)
	})

	t.Run("TestInstallPythonSuccessPath", func(t *testing.T) {
		// Create a mock installation that succeeds to test the pip upgrade path
		version := "3.13"
		installPath := manager.GetVersionPath(version)

		// Create the installation directory structure
		binDir := filepath.Join(installPath, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		// Create a mock Python executable that handles pip commands
		pythonExe := filepath.Join(binDir, "python3")
		mockScript := `#!/bin/bash
case "$*" in
    *"--version"*)
        echo "Python 3.13.0"
        ;;
    *"pip install --upgrade pip"*)
        echo "Successfully upgraded pip"
        exit 0
        ;;
    *"pip install --upgrade setuptools wheel"*)
        echo "Successfully installed setuptools and wheel"
        exit 0
        ;;
    *)
        echo "Unknown command: $*"
        exit 1
        ;;
esac
`
		require.NoError(t, os.WriteFile(pythonExe, []byte(mockScript), 0o755))

		// Create a mock download file for macOS
		downloadPath := filepath.Join(tempDir, "python-3.13.0-macos11.pkg")
		require.NoError(t, os.WriteFile(downloadPath, []byte("mock installer"), 0o644))

		// This should exercise the pip upgrade success path
		err := manager.installPython(version, downloadPath, true)
		// May fail during actual installation but should exercise the pip upgrade code
		if err != nil {
			t.Logf("Installation failed as expected: %v", err)
		}
	})

	t.Run("TestInstallVersionWithInvalidVersion", func(t *testing.T) {
		// Test InstallVersion with version that doesn't exist
		err := manager.InstallVersion("999.999.999")
		assert.Error(t, err)
		// Should fail because this version doesn't exist in available versions
	})

	t.Run("TestEnsureVersionEdgeCases", func(t *testing.T) {
		// Test EnsureVersion with edge cases

		// Test with already installed version (create a mock)
		version := "3.14"
		versionDir := filepath.Join(manager.GetVersionsDir(), version)
		binDir := filepath.Join(versionDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		pythonExe := filepath.Join(binDir, "python3")
		require.NoError(t, os.WriteFile(pythonExe, []byte("#!/bin/bash\necho 'Python 3.14.0'\n"), 0o755))

		// Should detect it's already installed and return success
		_, err := manager.EnsureVersion(version)
		assert.NoError(t, err)

		// Test with invalid version
		_, err = manager.EnsureVersion("not.a.version")
		assert.Error(t, err)
	})
	t.Run("TestInstallToDirectoryEdgeCases", func(t *testing.T) {
		// Test InstallToDirectory with edge cases

		targetDir := filepath.Join(tempDir, "custom-python")

		// Test with invalid version
		_, err := manager.InstallToDirectory("invalid.version", targetDir)
		assert.Error(t, err)

		// Test with read-only target directory (simulate)
		readOnlyDir := "/dev/null/cannot-create"
		_, err = manager.InstallToDirectory("default", readOnlyDir)
		assert.Error(t, err)
	})

	t.Run("TestGetSystemPythonEdgeCases", func(t *testing.T) {
		// Test GetSystemPython
		pythonPath, err := manager.GetSystemPython()
		// Should return some path or empty string
		if err != nil {
			t.Logf("GetSystemPython returned error: %v", err)
		}
		if pythonPath != "" {
			// If found, should be an actual file
			_, statErr := os.Stat(pythonPath)
			assert.NoError(t, statErr)
		}

		// Just verify it doesn't panic and returns a string
		assert.IsType(t, "", pythonPath)
	})
}

func TestMiscellaneousBranches(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestManagerWithCustomHttpClient", func(t *testing.T) {
		// Test that the manager has proper initialization
		assert.NotNil(t, manager.DownloadManager)
	})

	t.Run("TestGetLatestVersionWithCachedData", func(t *testing.T) {
		// Test GetLatestVersion - it might succeed if there's cached data
		version, err := manager.GetLatestVersion()
		if err != nil {
			t.Logf("GetLatestVersion failed: %v", err)
		} else {
			assert.NotEmpty(t, version)
			t.Logf("Latest version: %s", version)
		}
	})

	t.Run("TestManagerFunctionsWithNilInputs", func(t *testing.T) {
		// Test various functions with edge case inputs

		// Test with empty version strings where applicable
		exe := manager.GetPythonExecutable("")
		assert.NotEmpty(t, exe) // Should still return a path

		installed := manager.IsVersionInstalled("")
		assert.False(t, installed) // Empty version should not be installed

		path := manager.GetVersionPath("")
		assert.NotEmpty(t, path) // Should return some path
	})
}

func TestLinuxSpecificCoverage(t *testing.T) {
	// These tests will only run and provide coverage on Linux systems
	// but they ensure the code compiles and works on all platforms

	t.Run("TestLinuxSourceInstallationSteps", func(t *testing.T) {
		if runtime.GOOS != constants.LinuxOS {
			t.Skip("Skipping Linux-specific test on non-Linux platform")
		}

		tempDir := t.TempDir()
		manager := NewManager(tempDir)

		// Test with a mock source archive that will fail at different steps
		invalidPath := "/nonexistent/Python-3.12.7.tgz"
		installPath := filepath.Join(tempDir, "test-install")

		err := manager.installLinuxFromSource("3.12", invalidPath, installPath)
		assert.Error(t, err)
		// Should fail early in the process
	})

	t.Run("TestLinuxBuildDepsDetailed", func(t *testing.T) {
		if runtime.GOOS != constants.LinuxOS {
			t.Skip("Skipping Linux-specific test on non-Linux platform")
		}

		tempDir := t.TempDir()
		manager := NewManager(tempDir)

		// Test build dependencies check
		err := manager.checkLinuxBuildDeps()
		// May pass or fail depending on system
		if err != nil {
			t.Logf("Build deps check failed: %v", err)
		} else {
			t.Logf("Build deps check passed")
		}
	})
}

func TestFinalCoverageBoost(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestGetPythonExecutableWindowsPath", func(t *testing.T) {
		// Test that GetPythonExecutable works for different platforms
		// We can't change runtime.GOOS but we can test with different versions

		// Test with various version formats
		exe1 := manager.GetPythonExecutable("3.12.1")
		assert.NotEmpty(t, exe1)
		assert.Contains(t, exe1, "3.12.1")

		exe2 := manager.GetPythonExecutable("3.9.18")
		assert.NotEmpty(t, exe2)
		assert.Contains(t, exe2, "3.9.18")

		// Verify the path structure is correct for current platform
		switch runtime.GOOS {
		case "windows":
			assert.Contains(t, exe1, "python.exe")
		default:
			assert.Contains(t, exe1, "python3")
		}
	})

	t.Run("TestNewManagerEmptyDirBranch", func(t *testing.T) {
		// Test NewManager with empty string to exercise the default path logic
		mgr := NewManager("")
		assert.NotNil(t, mgr)
		assert.NotEmpty(t, mgr.BaseDir)
		assert.NotEmpty(t, mgr.CacheDir)

		// Should create a default path in user's cache directory
		assert.Contains(t, mgr.BaseDir, "python")
	})

	t.Run("TestInstallPythonCreateDirectoryBranch", func(t *testing.T) {
		// Test installPython directory creation failure

		// Create a manager with an invalid base directory to force directory creation failure
		invalidManager := &Manager{
			BaseDir: "/root/invalid/readonly/path",
		}

		err := invalidManager.installPython("3.12", "/nonexistent/python.pkg", true)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create installation directory")
	})

	t.Run("TestListVersionsGetAvailableVersionsError", func(t *testing.T) {
		// Test ListVersions when GetAvailableVersions fails

		// Create a manager with an invalid cache directory
		invalidManager := &Manager{
			CacheDir: "/invalid/path/that/will/cause/errors/when/accessing/cache",
		}

		installed, available, err := invalidManager.ListVersions()
		if err != nil {
			// Should handle the error gracefully
			assert.Error(t, err)
			assert.Nil(t, installed)
			assert.Nil(t, available)
		} else {
			// If it succeeds (maybe due to fallback), verify the results
			assert.NotNil(t, installed)
			assert.NotNil(t, available)
		}
	})

	t.Run("TestGetLatestVersionErrorBranch", func(t *testing.T) {
		// Test GetLatestVersion error handling

		// Create a manager that will fail to get available versions
		invalidManager := &Manager{
			CacheDir: "/completely/invalid/path/that/cannot/exist",
		}

		version, err := invalidManager.GetLatestVersion()
		if err != nil {
			assert.Error(t, err)
			assert.Empty(t, version)
		} else {
			// Might succeed if there's cached data or other fallbacks
			assert.NotEmpty(t, version)
		}
	})

	t.Run("TestInstallVersionErrorPath", func(t *testing.T) {
		// Test InstallVersion with version that doesn't exist in available versions

		err := manager.InstallVersion("999.999.999")
		assert.Error(t, err)
		// Should fail because this version doesn't exist
	})

	t.Run("TestVerifyInstallationGetPythonVersionFailure", func(t *testing.T) {
		// Test VerifyInstallation when GetPythonVersion fails

		// Create a mock installation with a broken Python executable
		version := "3.15"
		versionDir := filepath.Join(manager.GetVersionsDir(), version)
		binDir := filepath.Join(versionDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		// Create a "python" executable that exits with error
		pythonExe := filepath.Join(binDir, "python3")
		brokenScript := `#!/bin/bash
echo "Broken Python installation"
exit 1
`
		require.NoError(t, os.WriteFile(pythonExe, []byte(brokenScript), 0o755))

		err := manager.VerifyInstallation(version)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to run Python --version")
	})

	t.Run("TestUpgradePipSetuptoolsFailure", func(t *testing.T) {
		// Test upgradePipAndInstallPackages when setuptools installation fails

		version := "3.16"
		versionDir := filepath.Join(manager.GetVersionsDir(), version)
		binDir := filepath.Join(versionDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))

		pythonExe := filepath.Join(binDir, "python3")
		scriptContent := `#!/bin/bash
case "$*" in
    *"pip install --upgrade pip"*)
        echo "Successfully upgraded pip"
        exit 0
        ;;
    *"pip install --upgrade setuptools wheel"*)
        echo "Failed to install setuptools"
        exit 1
        ;;
    *)
        echo "Python 3.16.0"
        exit 0
        ;;
esac
`
		require.NoError(t, os.WriteFile(pythonExe, []byte(scriptContent), 0o755))

		err := manager.upgradePipAndInstallPackages(version)
		// Should succeed despite setuptools failure (it's just a warning)
		assert.NoError(t, err)
	})
}

func TestRemainingEdgeCases(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManager(tempDir)

	t.Run("TestHasOpenSSLBothPaths", func(t *testing.T) {
		// Test hasOpenSSL function - this tests both true and false paths
		hasSSL := manager.hasOpenSSL()
		assert.IsType(t, true, hasSSL)

		// The function checks for openssl command and /usr/local/ssl
		// We can't control the environment but we can ensure it doesn't panic
		t.Logf("System has OpenSSL: %v", hasSSL)
	})

	t.Run("TestInstallMacOSExtractionFailure", func(t *testing.T) {
		// Test installMacOS with file that fails extraction
		installPath := filepath.Join(tempDir, "test-macos-install")

		// Create a file that's not a valid installer package
		invalidPkg := filepath.Join(tempDir, "invalid.pkg")
		require.NoError(t, os.WriteFile(invalidPkg, []byte("not a pkg file"), 0o644))

		err := manager.installMacOS("3.12", invalidPkg, installPath)
		assert.Error(t, err)
		// Should fail during package extraction
	})

	t.Run("TestEnsureVersionInstallFailure", func(t *testing.T) {
		// Test EnsureVersion when installation fails

		// Use a version that exists in available versions but will fail to install
		// This tests the InstallVersion error path in EnsureVersion
		_, err := manager.EnsureVersion("3.8") // Old version that might not be available
		if err != nil {
			t.Logf("EnsureVersion failed as expected: %v", err)
			assert.Error(t, err)
		} else {
			t.Logf("EnsureVersion unexpectedly succeeded")
		}
	})

	t.Run("TestInstallToDirectoryEnsureVersionFailure", func(t *testing.T) {
		// Test InstallToDirectory when EnsureVersion fails

		targetDir := filepath.Join(tempDir, "custom-install")
		_, err := manager.InstallToDirectory("invalid.version.string", targetDir)
		assert.Error(t, err)
		// Should fail during version resolution
	})

	t.Run("TestUpgradePipInDirectoryMissingPython", func(t *testing.T) {
		// Test upgradePipInDirectory when python executable doesn't exist

		emptyDir := filepath.Join(tempDir, "empty-python-env")
		require.NoError(t, os.MkdirAll(emptyDir, 0o755))

		err := manager.upgradePipInDirectory(emptyDir)
		assert.Error(t, err)
		// Should fail because no python executable exists
	})
}
