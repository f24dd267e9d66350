package gogo

import _ "embed"

// Embedded built-in prompt files. They are materialized into the prompts
// directory on first use so weighted tables and fixed modes can reference
// them by path like any user-supplied prompt.

//go:embed prompts/generic_forward_progress_task.md
var PromptForwardProgress string

//go:embed prompts/optimization_task.md
var PromptOptimization string

//go:embed prompts/task_gardening.md
var PromptGardening string
