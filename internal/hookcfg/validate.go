package hookcfg

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	repositoryPathTemplateConstant        = "repos[%d]"
	hookPathTemplateConstant              = "repos[%d].hooks[%d]"
	hookExcludePathTemplateConstant       = "repos[%d].hooks[%d].exclude"
	missingRepositoryLocationMessage      = "repository entry must declare a location reference"
	missingRevisionMessageConstant        = "repository entry must pin a non-empty revision"
	missingHooksMessageConstant           = "repository entry must declare at least one hook"
	missingHookIdentifierMessageConstant  = "hook entry must declare an identifier"
	duplicateHookIdentifierTemplate       = "hook identifier %q is declared more than once in this repository entry"
	invalidExcludePatternTemplateConstant = "exclusion pattern does not compile: %v"
)

// ValidationIssue points at a document location failing a well-formedness property.
type ValidationIssue struct {
	Path    string
	Message string
}

// String renders the issue as path: message.
func (issue ValidationIssue) String() string {
	return issue.Path + ": " + issue.Message
}

// Validate checks the document's well-formedness properties.
//
// Every failing property is reported; validation never stops at the first
// issue. An empty slice means the document is well formed.
func (document Document) Validate() []ValidationIssue {
	issues := make([]ValidationIssue, 0)

	for repositoryIndex, repositorySource := range document.Repos {
		repositoryPath := fmt.Sprintf(repositoryPathTemplateConstant, repositoryIndex)

		if len(strings.TrimSpace(repositorySource.Repo)) == 0 {
			issues = append(issues, ValidationIssue{Path: repositoryPath, Message: missingRepositoryLocationMessage})
		}
		if len(strings.TrimSpace(repositorySource.Rev)) == 0 {
			issues = append(issues, ValidationIssue{Path: repositoryPath, Message: missingRevisionMessageConstant})
		}
		if len(repositorySource.Hooks) == 0 {
			issues = append(issues, ValidationIssue{Path: repositoryPath, Message: missingHooksMessageConstant})
		}

		seenHookIdentifiers := make(map[string]struct{}, len(repositorySource.Hooks))
		for hookIndex, hookInvocation := range repositorySource.Hooks {
			hookPath := fmt.Sprintf(hookPathTemplateConstant, repositoryIndex, hookIndex)

			trimmedIdentifier := strings.TrimSpace(hookInvocation.ID)
			if len(trimmedIdentifier) == 0 {
				issues = append(issues, ValidationIssue{Path: hookPath, Message: missingHookIdentifierMessageConstant})
			} else {
				if _, alreadySeen := seenHookIdentifiers[trimmedIdentifier]; alreadySeen {
					issues = append(issues, ValidationIssue{
						Path:    hookPath,
						Message: fmt.Sprintf(duplicateHookIdentifierTemplate, trimmedIdentifier),
					})
				}
				seenHookIdentifiers[trimmedIdentifier] = struct{}{}
			}

			if len(hookInvocation.Exclude) > 0 {
				if _, compileError := regexp.Compile(hookInvocation.Exclude); compileError != nil {
					issues = append(issues, ValidationIssue{
						Path:    fmt.Sprintf(hookExcludePathTemplateConstant, repositoryIndex, hookIndex),
						Message: fmt.Sprintf(invalidExcludePatternTemplateConstant, compileError),
					})
				}
			}
		}
	}

	return issues
}
