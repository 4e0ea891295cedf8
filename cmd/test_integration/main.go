package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("INNOLINK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 30 * time.Second}

	fmt.Println("Starting smoke test against", baseURL)
	stamp := time.Now().Unix()

	fmt.Println("1. Adding corpus item...")
	item := map[string]interface{}{
		"type":     "Solution",
		"title":    fmt.Sprintf("Solar River Skimmer %d", stamp),
		"summary":  "A floating solar-powered platform that skims plastic waste from slow rivers.",
		"author":   "Smoke Test",
		"category": "Environment",
	}
	if _, ok := send(client, baseURL, http.MethodPost, "/api/corpus", item, http.StatusCreated); !ok {
		fail("add corpus item")
	}
	fmt.Println("PASSED: add corpus item")

	fmt.Println("2. Checking a near-duplicate idea...")
	body, ok := send(client, baseURL, http.MethodPost, "/api/ideas/check", map[string]string{
		"title":   "River Plastic Skimmer",
		"concept": "A solar boat that floats on rivers and collects plastic waste automatically.",
	}, http.StatusOK)
	if !ok {
		fail("check idea")
	}
	var verdict struct {
		NoveltyScore   int    `json:"noveltyScore"`
		Classification string `json:"classification"`
		Fallback       bool   `json:"fallback"`
	}
	if err := json.Unmarshal(body, &verdict); err != nil {
		fail("decode verdict: " + err.Error())
	}
	if verdict.NoveltyScore < 0 || verdict.NoveltyScore > 100 {
		fail(fmt.Sprintf("score out of range: %d", verdict.NoveltyScore))
	}
	fmt.Printf("PASSED: check idea (%s, score %d, fallback %t)\n", verdict.Classification, verdict.NoveltyScore, verdict.Fallback)

	fmt.Println("3. Registering the idea...")
	author := fmt.Sprintf("smoke-%d", stamp)
	if _, ok := send(client, baseURL, http.MethodPost, "/api/ideas/register", map[string]interface{}{
		"title":      "River Plastic Skimmer",
		"concept":    "A solar boat that floats on rivers and collects plastic waste automatically.",
		"authorId":   author,
		"authorName": "Smoke Test",
		"lockDays":   7,
	}, http.StatusCreated); !ok {
		fail("register idea")
	}
	if _, ok := send(client, baseURL, http.MethodGet, "/api/ideas/registrations?author_id="+author, nil, http.StatusOK); !ok {
		fail("list registrations")
	}
	fmt.Println("PASSED: register idea")
}

func fail(step string) {
	fmt.Println("FAILED:", step)
	os.Exit(1)
}

func send(client *http.Client, baseURL, method, endpoint string, payload interface{}, want int) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Error encoding payload: %v\n", err)
			return nil, false
		}
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
