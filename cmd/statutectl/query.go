package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var sessionID string

// queryCmd asks the daemon a question
var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a GST question",
	Long: `Ask the statuted daemon a question about GST statutes.

When the question is ambiguous (for example a bare section number that
exists in several Acts), the daemon asks a clarification question. The
command then prompts for the answer on stdin and resends it within the
same session, so the round-trip completes in one invocation.

Examples:
  # Ask a question
  statutectl query "What does section 16 say about input tax credit?"

  # Continue an existing session
  statutectl query --session 6f1c... "the CGST Act"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&sessionID, "session", "", "session ID to continue")
}

// QueryRequest matches internal/http/types.go QueryRequest
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse matches internal/http/types.go QueryResponse
type QueryResponse struct {
	SessionID             string         `json:"session_id"`
	RequiresClarification bool           `json:"requires_clarification"`
	ClarificationQuestion string         `json:"clarification_question"`
	PendingQuestion       string         `json:"pending_question"`
	Answer                string         `json:"answer"`
	Sources               map[string]int `json:"sources"`
}

// runQuery handles the query command
func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]
	session := sessionID
	reader := bufio.NewReader(os.Stdin)

	for {
		resp, err := postQuery(question, session)
		if err != nil {
			return err
		}
		session = resp.SessionID

		if !resp.RequiresClarification {
			printAnswer(resp)
			return nil
		}

		fmt.Printf("%s\n> ", resp.ClarificationQuestion)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Non-interactive caller: report the session so it can
				// be continued with --session.
				fmt.Fprintf(os.Stderr, "\n[statutectl] clarification pending; continue with --session %s\n", session)
				return nil
			}
			return fmt.Errorf("failed to read clarification answer: %w", err)
		}
		question = strings.TrimSpace(line)
		if question == "" {
			return fmt.Errorf("empty clarification answer")
		}
	}
}

func postQuery(question, session string) (*QueryResponse, error) {
	reqJSON, err := json.Marshal(QueryRequest{
		Question:  question,
		SessionID: session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/query", serverURL)
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 120 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var queryResp QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &queryResp, nil
}

func printAnswer(resp *QueryResponse) {
	fmt.Println(resp.Answer)

	if len(resp.Sources) > 0 {
		sources := make([]string, 0, len(resp.Sources))
		for src := range resp.Sources {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		fmt.Fprintf(os.Stderr, "\n[statutectl] sources: %s\n", strings.Join(sources, ", "))
	}
}
