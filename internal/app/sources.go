package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadSubredditFile reads one subreddit name per line. Blank lines and lines
// starting with '#' are ignored.
func ReadSubredditFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subreddit file: %w", err)
	}
	defer file.Close()

	var subreddits []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		subreddits = append(subreddits, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subreddit file: %w", err)
	}
	return subreddits, nil
}
