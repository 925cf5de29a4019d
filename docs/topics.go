// Package docs holds the documentation topics shown by snv topic.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

//go:embed *.md
var docs embed.FS

// GetTopic returns the content of a documentation topic.
// The topic "*" stands for all of them.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		return GetTopics(Topics()...)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", errors.Wrapf(err, "topic %q not found", topic)
	}
	return string(content), nil
}

// GetTopics returns the content of several topics, one after the other.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Topics returns the sorted names of the topics, the readme excluded.
func Topics() []string {
	files, _ := fs.Glob(docs, "*.md") // the pattern is valid
	var topics []string
	for _, f := range files {
		if name := strings.TrimSuffix(path.Base(f), ".md"); name != "readme" {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}
