package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmcarbo/prek/pkg/config"
	"github.com/jmcarbo/prek/pkg/fastpath"
	"github.com/jmcarbo/prek/pkg/fileset"
	"github.com/jmcarbo/prek/pkg/hook/commands"
	"github.com/jmcarbo/prek/pkg/hook/execution"
	"github.com/jmcarbo/prek/pkg/hook/formatting"
	"github.com/jmcarbo/prek/pkg/hook/matching"
	"github.com/jmcarbo/prek/pkg/pkgerr"
	"github.com/jmcarbo/prek/pkg/repository"
	"github.com/jmcarbo/prek/pkg/workspace"
)

// Orchestrator coordinates hook execution using the new sub-packages
type Orchestrator struct {
	ctx       *execution.Context
	repoMgr   *repository.Manager
	executor  *execution.Executor
	formatter *formatting.Formatter
	matcher   *matching.Matcher
	builder   *commands.Builder
	tagger    *fileset.Tagger
	selectors []*workspace.Selector
}

// hookResultOrc represents the result of running a single hook in parallel for the orchestrator
type hookResultOrc struct {
	err    error
	result execution.Result
	index  int
}

// NewOrchestrator creates a new hook orchestrator
func NewOrchestrator(ctx *execution.Context) *Orchestrator {
	var repoMgr *repository.Manager

	// Use repository manager from context if available
	if ctx.RepoManager != nil {
		if mgr, ok := ctx.RepoManager.(*repository.Manager); ok {
			repoMgr = mgr
		}
	}

	// Fallback: create new repository manager if not provided
	if repoMgr == nil {
		var err error
		repoMgr, err = repository.NewManager()
		if err != nil {
			// If we can't create the repository manager, create a basic orchestrator without it
			// This allows local and meta hooks to still work
			repoMgr = nil
		}
	}

	selectors := make([]*workspace.Selector, 0, len(ctx.Selectors))
	for _, raw := range ctx.Selectors {
		selectors = append(selectors, workspace.Classify(raw))
	}

	return &Orchestrator{
		ctx:       ctx,
		repoMgr:   repoMgr,
		executor:  execution.NewExecutor(ctx),
		formatter: formatting.NewFormatter(ctx.Color, ctx.Verbose),
		matcher:   matching.NewMatcher(),
		builder:   commands.NewBuilder(ctx.RepoRoot),
		tagger:    fileset.NewTagger(ctx.RepoRoot),
		selectors: selectors,
	}
}

// UnmatchedSelectors reports the CLI-visible selector strings that never
// matched any hook or project during the run, for the "selector hit
// nothing" completion warning.
func (o *Orchestrator) UnmatchedSelectors() []string {
	return workspace.Unused(o.selectors)
}

// projectRoot is the absolute directory hook file paths and fast-path
// checks resolve against: the repo root, scoped to the active project
// directory when running inside a discovered workspace project.
func (o *Orchestrator) projectRoot() string {
	if o.ctx.ProjectDir == "" || o.ctx.ProjectDir == "." {
		return o.ctx.RepoRoot
	}
	return filepath.Join(o.ctx.RepoRoot, o.ctx.ProjectDir)
}

// RunHooks executes all hooks in the configuration using the new modular approach
func (o *Orchestrator) RunHooks(ctx context.Context) ([]execution.Result, error) {
	overallStart := time.Now()
	defer func() {
		execution.LogTiming("RunHooks overall", overallStart)
	}()

	// Collect hooks to run
	hooksToRun, err := o.collectHooksToRun(ctx)
	if err != nil {
		return nil, err
	}

	// Pre-initialize all environments
	if err := o.preInitializeEnvironments(ctx, hooksToRun); err != nil {
		return nil, fmt.Errorf("failed to pre-initialize environments: %w", err)
	}

	// Execute hooks
	return o.executeHooks(ctx, hooksToRun)
}

// collectHooksToRun gathers all hooks that should be executed based on stage and filters
func (o *Orchestrator) collectHooksToRun(ctx context.Context) ([]execution.RunItem, error) {
	collectStart := time.Now()
	defer func() {
		execution.LogTiming("hook collection", collectStart)
	}()

	hookStage := o.getHookStage()
	var hooksToRun []execution.RunItem

	for _, repo := range o.ctx.Config.Repos {
		repoHooks, err := o.collectRepoHooks(ctx, repo, hookStage)
		if err != nil {
			return nil, err
		}
		hooksToRun = append(hooksToRun, repoHooks...)
	}

	return hooksToRun, nil
}

// getHookStage returns the hook stage to run, defaulting to "pre-commit"
func (o *Orchestrator) getHookStage() string {
	if o.ctx.HookStage == "" {
		return "pre-commit"
	}
	return o.ctx.HookStage
}

// collectRepoHooks collects hooks from a single repository
func (o *Orchestrator) collectRepoHooks(
	ctx context.Context,
	repo config.Repo,
	hookStage string,
) ([]execution.RunItem, error) {
	hooksToRun := make([]execution.RunItem, 0, len(repo.Hooks))

	for _, hook := range repo.Hooks {
		if !o.shouldRunHook(hook, hookStage) {
			continue
		}

		runItem, err := o.createRunItem(ctx, repo, hook)
		if err != nil {
			return nil, err
		}

		hooksToRun = append(hooksToRun, runItem)
	}

	return hooksToRun, nil
}

// shouldRunHook determines if a hook should be executed based on stage and ID filters
func (o *Orchestrator) shouldRunHook(hook config.Hook, hookStage string) bool {
	if !o.shouldRunHookForStage(hook, hookStage) {
		return false
	}

	if !o.shouldRunHookBySelectors(hook.ID) {
		return false
	}

	return true
}

// createRunItem creates a RunItem for a hook
func (o *Orchestrator) createRunItem(
	ctx context.Context,
	repo config.Repo,
	hook config.Hook,
) (execution.RunItem, error) {
	repoPathStart := time.Now()
	repoPath, err := o.getRepoPathForHook(ctx, repo, hook)
	execution.LogTiming(fmt.Sprintf("getRepoPathForHook for %s", hook.ID), repoPathStart)
	if err != nil {
		return execution.RunItem{}, fmt.Errorf(
			"failed to get repository path for hook %s: %w",
			hook.ID,
			err,
		)
	}

	mergedHook, err := o.mergeWithRepositoryHook(hook, repo, repoPath)
	if err != nil {
		return execution.RunItem{}, fmt.Errorf(
			"failed to merge hook definition for %s: %w",
			hook.ID,
			err,
		)
	}

	return execution.RunItem{
		Repo:     repo,
		Hook:     mergedHook,
		RepoPath: repoPath,
	}, nil
}

// executeHooks runs the collected hooks, partitioned into priority groups
// (ascending by Hook.Priority, equal priorities forming one group). Groups
// run strictly in order; within a group, hooks run in parallel or
// sequentially per the usual rules. fail_fast stops scheduling further
// groups once a group has produced a failure.
func (o *Orchestrator) executeHooks(ctx context.Context, hooksToRun []execution.RunItem) ([]execution.Result, error) {
	preInitStart := time.Now()
	if err := o.preInitializeEnvironments(ctx, hooksToRun); err != nil {
		return nil, fmt.Errorf("failed to pre-initialize environments: %w", err)
	}
	execution.LogTiming("pre-initialize environments", preInitStart)

	runStart := time.Now()
	defer func() {
		execution.LogTiming("hook execution", runStart)
	}()

	groups := partitionByPriority(hooksToRun)

	var allResults []execution.Result
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return allResults, pkgerr.New(pkgerr.KindInterrupted, err)
		}

		results, err := o.runGroup(ctx, group)
		allResults = append(allResults, results...)
		if err != nil {
			return allResults, err
		}

		if o.ctx.Config.FailFast && groupHasFailure(results) {
			return allResults, nil
		}
	}

	return allResults, nil
}

// runGroup runs a single priority group, choosing parallel vs. sequential
// execution based on that group's own require_serial hooks (a serial hook
// in one group must not force every other group to run serially too).
func (o *Orchestrator) runGroup(
	ctx context.Context,
	group []execution.RunItem,
) ([]execution.Result, error) {
	if o.ctx.Parallel > 1 && !o.hasSerialRequiredHooks(group) {
		return o.runHooksParallel(ctx, group)
	}
	return o.runHooksSequential(ctx, group)
}

func groupHasFailure(results []execution.Result) bool {
	for _, r := range results {
		if !r.Success {
			return true
		}
	}
	return false
}

// partitionByPriority groups hooksToRun by ascending Hook.Priority, forming
// one group per distinct priority value while preserving each hook's
// original relative order within its group.
func partitionByPriority(hooksToRun []execution.RunItem) [][]execution.RunItem {
	if len(hooksToRun) == 0 {
		return nil
	}

	byPriority := make(map[int][]execution.RunItem)
	var priorities []int
	for _, item := range hooksToRun {
		p := item.Hook.Priority
		if _, seen := byPriority[p]; !seen {
			priorities = append(priorities, p)
		}
		byPriority[p] = append(byPriority[p], item)
	}

	slices.Sort(priorities)

	groups := make([][]execution.RunItem, 0, len(priorities))
	for _, p := range priorities {
		groups = append(groups, byPriority[p])
	}
	return groups
}

// Helper methods that will be moved from runner.go gradually

// shouldRunHookForStage checks if a hook should run for the given stage
func (o *Orchestrator) shouldRunHookForStage(hook config.Hook, stage string) bool {
	// If no stages are specified, hook runs for all stages
	if len(hook.Stages) == 0 {
		return true
	}

	// Check if the hook is configured for this stage
	return slices.Contains(hook.Stages, stage)
}

// shouldRunHookByID checks if a hook should run based on hook ID filtering
func (o *Orchestrator) shouldRunHookByID(hookID string) bool {
	return slices.Contains(o.ctx.HookIDs, hookID)
}

// shouldRunHookBySelectors narrows execution to hooks targeted by the
// CLI's "<id>"/"<project-path>"/"<project-path>/<id>"/"<project-path>::<id>"
// selector syntax (each possibly a glob). Contexts built without selectors
// (e.g. direct execution.Context construction in hook-impl/try-repo) fall
// back to plain HookIDs containment for backward compatibility.
func (o *Orchestrator) shouldRunHookBySelectors(hookID string) bool {
	if len(o.selectors) == 0 {
		if len(o.ctx.HookIDs) > 0 {
			return o.shouldRunHookByID(hookID)
		}
		return true
	}

	matched := false
	for _, sel := range o.selectors {
		if sel.Match(o.ctx.ProjectDir, hookID) {
			matched = true
		}
	}
	return matched
}

// hasSerialRequiredHooks checks if any hooks require serial execution
func (o *Orchestrator) hasSerialRequiredHooks(hooksToRun []execution.RunItem) bool {
	for _, hookData := range hooksToRun {
		if hookData.Hook.RequireSerial {
			return true
		}
	}
	return false
}

// getRepoPathForHook gets the repository path for a hook, handling setup if needed
func (o *Orchestrator) getRepoPathForHook(
	ctx context.Context,
	repo config.Repo,
	hook config.Hook,
) (string, error) {
	start := time.Now()
	defer func() {
		execution.LogTiming("getRepoPathForHook total", start)
	}()

	if o.repoMgr == nil {
		execution.LogTiming("getRepoPathForHook (no repo manager)", start)
		return o.ctx.RepoRoot, nil
	}

	// Handle local and meta repositories
	checkStart := time.Now()
	isLocal := o.repoMgr.IsLocalRepo(repo)
	isMeta := o.repoMgr.IsMetaRepo(repo)
	execution.LogTiming("repository type check", checkStart)

	if isLocal || isMeta {
		execution.LogTiming("getRepoPathForHook (local/meta)", start)
		return o.ctx.RepoRoot, nil
	}

	// Handle remote repositories with dependency-aware caching
	cloneStart := time.Now()
	repoPath, err := o.repoMgr.CloneOrUpdateRepoWithDeps(ctx, repo, hook.AdditionalDeps)
	execution.LogTiming("CloneOrUpdateRepoWithDeps", cloneStart)

	if err != nil {
		return "", fmt.Errorf("failed to setup repository: %w", err)
	}

	return repoPath, nil
}

func (o *Orchestrator) preInitializeEnvironments(
	ctx context.Context,
	hooksToRun []execution.RunItem,
) error {
	if o.repoMgr == nil {
		return nil // No repository manager, skip pre-initialization
	}

	// Convert to the format expected by the repository manager
	hookEnvData := make([]config.HookEnvItem, 0, len(hooksToRun))

	for _, hookData := range hooksToRun {
		hookEnvData = append(hookEnvData, config.HookEnvItem{
			Hook:     hookData.Hook,
			Repo:     hookData.Repo,
			RepoPath: hookData.RepoPath,
		})
	}

	return o.repoMgr.PreInitializeHookEnvironments(ctx, hookEnvData)
}

func (o *Orchestrator) runHooksSequential(
	ctx context.Context,
	hooksToRun []execution.RunItem,
) ([]execution.Result, error) {
	results := make([]execution.Result, 0, len(hooksToRun))

	for _, hookData := range hooksToRun {
		if err := ctx.Err(); err != nil {
			return results, pkgerr.New(pkgerr.KindInterrupted, err)
		}

		result, err := o.runHookWithPath(ctx, hookData.Hook, hookData.Repo, hookData.RepoPath)
		if err != nil {
			return results, fmt.Errorf("failed to run hook %s: %w", hookData.Hook.ID, err)
		}
		results = append(results, result)

		// Fail fast if enabled and hook failed
		if o.ctx.Config.FailFast && !result.Success {
			return results, nil
		}
	}

	return results, nil
}

func (o *Orchestrator) runHooksParallel(
	ctx context.Context,
	hooksToRun []execution.RunItem,
) ([]execution.Result, error) {
	resultsChan := make(chan hookResultOrc, len(hooksToRun))

	o.startHookWorkers(ctx, hooksToRun, resultsChan)

	results, firstError := o.collectResults(resultsChan, len(hooksToRun))

	if firstError != nil {
		return results, firstError
	}

	return o.handleFailFast(results)
}

// startHookWorkers starts goroutines to execute hooks in parallel
func (o *Orchestrator) startHookWorkers(
	ctx context.Context,
	hooksToRun []execution.RunItem,
	resultsChan chan hookResultOrc,
) {
	semaphore := make(chan struct{}, o.ctx.Parallel)
	var wg sync.WaitGroup

	// Start workers
	for i, hookData := range hooksToRun {
		wg.Add(1)
		go func(index int, hook config.Hook, repo config.Repo, repoPath string) {
			defer wg.Done()

			// Acquire semaphore, but bail out early if the run was cancelled
			// while queued rather than spending a slot on doomed work.
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				resultsChan <- hookResultOrc{err: pkgerr.New(pkgerr.KindInterrupted, ctx.Err()), index: index}
				return
			}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				resultsChan <- hookResultOrc{err: pkgerr.New(pkgerr.KindInterrupted, err), index: index}
				return
			}

			result, err := o.runHookWithPath(ctx, hook, repo, repoPath)
			resultsChan <- hookResultOrc{err: err, result: result, index: index}
		}(i, hookData.Hook, hookData.Repo, hookData.RepoPath)
	}

	// Close results channel when all workers are done
	go func() {
		wg.Wait()
		close(resultsChan)
	}()
}

// collectResults collects results from the results channel
func (o *Orchestrator) collectResults(
	resultsChan chan hookResultOrc,
	expectedCount int,
) ([]execution.Result, error) {
	results := make([]execution.Result, expectedCount)
	var firstError error

	for resultData := range resultsChan {
		if resultData.err != nil && firstError == nil {
			firstError = resultData.err
		}
		results[resultData.index] = resultData.result
	}

	return results, firstError
}

// handleFailFast handles fail-fast logic and returns appropriate results
func (o *Orchestrator) handleFailFast(results []execution.Result) ([]execution.Result, error) {
	if !o.ctx.Config.FailFast {
		return results, nil
	}

	for _, result := range results {
		if !result.Success {
			return o.getCompletedResults(results), nil
		}
	}

	return results, nil
}

// getCompletedResults filters out incomplete results and preserves order
func (o *Orchestrator) getCompletedResults(results []execution.Result) []execution.Result {
	var orderedResults []execution.Result
	for i := range results {
		if results[i].Hook.ID != "" { // Only include completed results
			orderedResults = append(orderedResults, results[i])
		}
	}
	return orderedResults
}

// runHookWithPath executes a single hook with a pre-determined repository path
func (o *Orchestrator) runHookWithPath(
	ctx context.Context,
	hook config.Hook,
	repo config.Repo,
	repoPath string,
) (execution.Result, error) {
	start := time.Now()
	result := execution.Result{Hook: hook}

	// Setup hook definition (port this from runner.go gradually)
	setupStart := time.Now()
	actualHook, hookSetupErr := o.setupHookDefinition(hook, repo)
	if hookSetupErr != nil {
		return result, hookSetupErr
	}
	execution.LogTiming("hook definition setup", setupStart)

	result.Hook = actualHook

	// Get files for hook using matching sub-package
	filesStart := time.Now()
	result.Files = o.getFilesForHook(actualHook)
	execution.LogTiming("getting files for hook", filesStart)

	// Check if hook should be skipped
	if shouldSkip := o.shouldSkipHook(actualHook, result.Files, start); shouldSkip.Skip {
		return shouldSkip.Result, nil
	}

	// Set up environment once and reuse it
	envStart := time.Now()
	var hookEnv map[string]string
	if o.repoMgr != nil {
		var envErr error
		hookEnv, envErr = o.repoMgr.SetupHookEnvironment(actualHook, repo, repoPath)
		if envErr != nil {
			return result, fmt.Errorf("failed to setup hook environment: %w", envErr)
		}
	}
	execution.LogTiming("environment setup", envStart)

	batchStart := time.Now()
	o.runHookBatches(ctx, &result, actualHook, repo, repoPath, hookEnv, start)
	execution.LogTiming("hook batches", batchStart)

	execution.LogTiming("runHookWithPath total", start)

	return result, nil
}

// runHookBatches splits result.Files into argv-length-bounded batches (per
// the scheduler's argv batching rule) and runs them sequentially, combining
// each batch's execution.Result into one aggregate result for the hook.
// Hooks that don't take filenames, or whose full file list already fits
// under the limit, run as a single batch.
func (o *Orchestrator) runHookBatches(
	ctx context.Context,
	result *execution.Result,
	hook config.Hook,
	repo config.Repo,
	repoPath string,
	hookEnv map[string]string,
	start time.Time,
) {
	if o.runFastPath(ctx, result, hook, repo, start) {
		return
	}

	passesFilenames := passFilenamesForHook(hook.PassFilenames, hook.Language)
	var batches [][]string
	if passesFilenames {
		batches = batchFiles(hook.Entry, hook.Args, result.Files, argvByteLimit())
	} else {
		batches = [][]string{nil}
	}

	var outputs []string
	success := true
	exitCode := 0

	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			result.Error = err.Error()
			result.Success = false
			result.ExitCode = 1
			return
		}

		cmd, buildErr := o.buildCommandWithEnv(hook, batch, repoPath, repo, hookEnv)
		if buildErr != nil {
			result.Error = fmt.Sprintf("failed to build command: %v", buildErr)
			result.Success = false
			result.ExitCode = 1
			return
		}
		o.setupCommandEnvironmentWithEnv(cmd, hook, repo, repoPath, hookEnv)

		output, execErr := o.executor.ExecuteWithTimeout(ctx, cmd)

		var batchResult execution.Result
		o.executor.ProcessExecutionResult(&batchResult, output, execErr, hook, start)

		if batchResult.Output != "" {
			outputs = append(outputs, batchResult.Output)
		}
		if batchResult.Timeout {
			result.Timeout = true
		}
		if !batchResult.Success {
			success = false
			if batchResult.ExitCode != 0 {
				exitCode = batchResult.ExitCode
			}
			if batchResult.Error != "" {
				if result.Error != "" {
					result.Error += "; " + batchResult.Error
				} else {
					result.Error = batchResult.Error
				}
			}
		}
	}

	result.Output = strings.Join(outputs, "")
	result.Success = success
	result.ExitCode = exitCode
	result.Duration = time.Since(start)
}

// runFastPath substitutes the in-process fastpath implementation for a
// hook whose repo matches a recognized upstream and whose args the
// implementation understands, so the common built-in checks skip a
// subprocess spawn entirely. It reports whether it handled the hook
// (leaving result populated either way); PREK_NO_FAST_PATH disables the
// substitution so every hook falls back to the normal subprocess route.
func (o *Orchestrator) runFastPath(
	ctx context.Context,
	result *execution.Result,
	hook config.Hook,
	repo config.Repo,
	start time.Time,
) bool {
	if os.Getenv("PREK_NO_FAST_PATH") != "" {
		return false
	}
	if !fastpath.IsUpstream(repo.Repo) {
		return false
	}
	check, ok := fastpath.Lookup(hook.ID)
	if !ok || !check.SupportsArgs(hook.Args) {
		return false
	}

	code, out, err := check.Run(ctx, o.projectRoot(), result.Files, hook.Args)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		result.ExitCode = 1
		result.Success = false
		return true
	}
	result.Output = string(out)
	result.ExitCode = code
	result.Success = code == 0
	return true
}

// setupHookDefinition handles meta hook merging and returns the actual hook to execute
func (o *Orchestrator) setupHookDefinition(
	hook config.Hook,
	repo config.Repo,
) (config.Hook, error) {
	if o.repoMgr == nil || !o.repoMgr.IsMetaRepo(repo) {
		return hook, nil
	}

	metaHook, exists := o.repoMgr.GetMetaHook(hook.ID)
	if !exists {
		return hook, fmt.Errorf("unknown meta hook: %s", hook.ID)
	}

	return o.mergeHookDefinitions(metaHook, hook), nil
}

func (o *Orchestrator) mergeHookDefinitions(base, override config.Hook) config.Hook {
	result := base // Start with base definition

	// Override fields that are explicitly set in config
	applyStringOverride(&result.Name, override.Name)
	applyStringOverride(&result.Entry, override.Entry)
	applyStringOverride(&result.Language, override.Language)
	applyStringOverride(&result.Files, override.Files)
	applyStringOverride(&result.ExcludeRegex, override.ExcludeRegex)
	applySliceOverride(&result.Types, override.Types)
	applySliceOverride(&result.TypesOr, override.TypesOr)
	applySliceOverride(&result.ExcludeTypes, override.ExcludeTypes)
	applySliceOverride(&result.AdditionalDeps, override.AdditionalDeps)
	applySliceOverride(&result.Args, override.Args)
	applyBoolOverride(&result.AlwaysRun, override.AlwaysRun)
	applyBoolOverride(&result.Verbose, override.Verbose)
	applyStringOverride(&result.LogFile, override.LogFile)
	applyBoolPtrOverride(&result.PassFilenames, override.PassFilenames)
	applyStringOverride(&result.Description, override.Description)
	applyStringOverride(&result.LanguageVersion, override.LanguageVersion)
	applyStringOverride(&result.MinimumPreCommitVersion, override.MinimumPreCommitVersion)
	applyBoolOverride(&result.RequireSerial, override.RequireSerial)
	applySliceOverride(&result.Stages, override.Stages)

	return result
}

// explicitFileSource adapts a pre-resolved file list (computed upstream by
// the run command from the chosen git state: staged, --all-files, ref
// range, or last commit) into fileset's repoFiles source so Compute's
// directory-expansion/project-scoping/selector-filtering/type-tag stages
// run uniformly regardless of how the caller picked the initial set.
type explicitFileSource struct {
	files []string
}

func (e explicitFileSource) GetStagedFiles() ([]string, error) { return e.files, nil }
func (e explicitFileSource) GetAllFiles() ([]string, error)    { return e.files, nil }
func (e explicitFileSource) GetChangedFiles(_, _ string) ([]string, error) {
	return e.files, nil
}
func (e explicitFileSource) GetCommitFiles(_ string) ([]string, error) { return e.files, nil }

// getFilesForHook runs the full file-set computation pipeline (source set,
// directory expansion, project scoping, selector filtering, per-hook
// regex/type-tag intersection, deterministic sort) for one hook.
func (o *Orchestrator) getFilesForHook(hook config.Hook) []string {
	req := fileset.Request{
		Source:        fileset.SourceExplicit,
		ExplicitSet:   o.ctx.Files,
		Deterministic: true,
	}

	files, err := fileset.Compute(
		explicitFileSource{files: o.ctx.Files},
		req,
		o.ctx.ProjectDir,
		hook,
		o.tagger,
		nil,
	)
	if err != nil {
		// Fall back to the plain regex/type matcher rather than failing the
		// whole hook over a file-set computation error.
		return o.matcher.GetFilesForHook(hook, o.ctx.Files, o.ctx.AllFiles)
	}
	return files
}

func (o *Orchestrator) shouldSkipHook(
	hook config.Hook,
	files []string,
	_ time.Time,
) execution.SkipResult {
	if len(files) == 0 && !hook.AlwaysRun {
		return execution.SkipResult{
			Skip: true,
			Result: execution.Result{
				Hook:     hook,
				Files:    files,
				Success:  true,
				Skipped:  true,
				Duration: 0,
			},
		}
	}
	return execution.SkipResult{Skip: false}
}

func (o *Orchestrator) buildCommandWithEnv(
	hook config.Hook,
	files []string,
	repoPath string,
	repo config.Repo,
	env map[string]string,
) (*exec.Cmd, error) {
	return o.builder.BuildCommand(hook, files, repoPath, repo, env)
}

func (o *Orchestrator) setupCommandEnvironmentWithEnv(
	cmd *exec.Cmd,
	hook config.Hook,
	repo config.Repo,
	repoPath string,
	hookEnv map[string]string,
) {
	cmd.Dir = o.ctx.RepoRoot

	if o.repoMgr != nil {
		if hookEnv != nil {
			// Use pre-setup environment
			for key, value := range hookEnv {
				cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
			}
		} else {
			// Fall back to setting up environment
			o.addHookEnvironment(cmd, hook, repo, repoPath)
		}
	}

	o.addContextEnvironment(cmd)
}

// addHookEnvironment adds language-specific environment variables
func (o *Orchestrator) addHookEnvironment(
	cmd *exec.Cmd,
	hook config.Hook,
	repo config.Repo,
	repoPath string,
) map[string]string {
	hookEnv, envErr := o.repoMgr.SetupHookEnvironment(hook, repo, repoPath)
	if envErr != nil {
		// Don't fail the hook, just log if verbose
		return nil
	}

	for key, value := range hookEnv {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	return hookEnv
}

// addContextEnvironment adds environment variables from execution context
func (o *Orchestrator) addContextEnvironment(cmd *exec.Cmd) {
	if o.ctx.Environment != nil {
		for key, value := range o.ctx.Environment {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
		}
	}
}

// applyStringOverride applies a string override if the override value is not empty
func applyStringOverride(target *string, override string) {
	if override != "" {
		*target = override
	}
}

// applySliceOverride applies a slice override if the override slice is not empty
func applySliceOverride[T any](target *[]T, override []T) {
	if len(override) > 0 {
		*target = override
	}
}

// applyBoolPtrOverride applies a bool pointer override if the override is not nil
func applyBoolPtrOverride(target **bool, override *bool) {
	if override != nil {
		*target = override
	}
}

// mergeWithRepositoryHook merges a config hook with its repository definition to get complete hook information
func (o *Orchestrator) mergeWithRepositoryHook(
	configHook config.Hook,
	repo config.Repo,
	repoPath string,
) (config.Hook, error) {
	// For local and meta repositories, return the config hook as-is
	if repo.Repo == "local" || repo.Repo == "meta" {
		// For meta hooks, try to get the definition and merge
		if repo.Repo == "meta" && o.repoMgr != nil {
			if metaHook, found := o.repoMgr.GetMetaHook(configHook.ID); found {
				return o.mergeHookDefinitions(metaHook, configHook), nil
			}
		}
		return configHook, nil
	}

	// For regular repositories, get the hook definition from .pre-commit-hooks.yaml
	if o.repoMgr == nil {
		return configHook, nil // No repository manager available
	}

	repoHook, found := o.repoMgr.GetRepositoryHook(repoPath, configHook.ID)
	if !found {
		return configHook, fmt.Errorf("hook %s not found in repository %s", configHook.ID, repo.Repo)
	}

	// Merge repository hook (base) with config hook (override)
	return o.mergeHookDefinitions(repoHook, configHook), nil
}

// applyBoolOverride applies a bool override if the override is true
func applyBoolOverride(target *bool, override bool) {
	if override {
		*target = override
	}
}
