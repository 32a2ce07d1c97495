package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describePrune() string {
	return `Removes unused named functions from library JavaScript, keeping only what application code reaches.

USE WHEN:
- Shrinking a vendored library before shipping it with an application
- Producing a minimal build of a utility library for one page or bundle

INPUTS:
- library_paths / library_source: the code to prune (files, directories or inline text)
- app_paths / app_source: code whose calls decide what is kept; it is never modified
- keep: names that must survive even without a visible call (reflection, HTML handlers)

INTERPRETING RESULTS:
- output is the pruned library; it is empty when diagnostics are present
- removed_functions lists each detached definition with its form (declared, assigned, keyed) and pass
- stranded lists kept functions only dead code still calls; rerun with fixed_point to remove them
- diagnostics: any syntax error (or ES3 trailing comma when strict) aborts the run

CAVEATS:
- Names are matched by final property segment, so obj.a.init() keeps every function named init
- Calls built from computed strings (obj[name]()) are invisible; list such names in keep`
}

func describeListUnused() string {
	return `Reports which library functions a prune would remove, without returning the pruned source.

USE WHEN:
- Auditing how much of a library an application actually uses
- Reviewing a prune before applying it

INTERPRETING RESULTS:
- total_functions counts named, removable definitions in the library
- removed_functions are unreachable from the application and the keep list
- kept_functions survive; stranded ones would go with more passes`
}
