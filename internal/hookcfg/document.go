package hookcfg

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	documentReadErrorTemplateConstant   = "failed to read hook declaration file: %w"
	documentParseErrorTemplateConstant  = "failed to parse hook declaration: %w"
	documentRenderErrorTemplateConstant = "failed to render hook declaration: %w"
	renderedDocumentIndentConstant      = 2
)

// HookInvocation declares a single hook entry with its optional arguments and exclusion pattern.
type HookInvocation struct {
	ID      string   `yaml:"id" json:"id"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Exclude string   `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// RepositorySource declares an external hook repository pinned to an exact revision.
type RepositorySource struct {
	Repo  string           `yaml:"repo" json:"repo"`
	Rev   string           `yaml:"rev" json:"rev"`
	Hooks []HookInvocation `yaml:"hooks" json:"hooks"`
}

// Document is the ordered sequence of repository sources read by the consuming tool.
type Document struct {
	Repos []RepositorySource `yaml:"repos" json:"repos"`
}

// ParseDocument decodes the serialized hook declaration, preserving entry order.
//
// An explicit empty args sequence is normalized to an absent one so the
// canonical rendering of a parsed document re-parses to an identical
// structure.
func ParseDocument(documentContent []byte) (Document, error) {
	var document Document
	if unmarshalError := yaml.Unmarshal(documentContent, &document); unmarshalError != nil {
		return Document{}, fmt.Errorf(documentParseErrorTemplateConstant, unmarshalError)
	}
	for repositoryIndex := range document.Repos {
		for hookIndex := range document.Repos[repositoryIndex].Hooks {
			if len(document.Repos[repositoryIndex].Hooks[hookIndex].Args) == 0 {
				document.Repos[repositoryIndex].Hooks[hookIndex].Args = nil
			}
		}
	}
	return document, nil
}

// LoadDocument reads and parses the hook declaration at the provided path.
func LoadDocument(filePath string) (Document, error) {
	documentContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return Document{}, fmt.Errorf(documentReadErrorTemplateConstant, readError)
	}
	return ParseDocument(documentContent)
}

// Render serializes the document in canonical form.
//
// Rendering is lossless with respect to the structural model: parsing the
// rendered output yields a document identical to the receiver, and optional
// fields absent from the receiver stay absent in the output.
func (document Document) Render() ([]byte, error) {
	var renderedBuffer bytes.Buffer
	encoder := yaml.NewEncoder(&renderedBuffer)
	encoder.SetIndent(renderedDocumentIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return nil, fmt.Errorf(documentRenderErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, fmt.Errorf(documentRenderErrorTemplateConstant, closeError)
	}
	return renderedBuffer.Bytes(), nil
}
