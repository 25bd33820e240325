package main

import (
	"fmt"
	"net/http"
	"os"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	req, err := http.NewRequest(http.MethodPost, api+"/api/trigger", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Bad API base:", err)
		os.Exit(1)
	}
	if key := os.Getenv("TRIGGER_API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted {
		fmt.Println("Cycle triggered. Watch GET /api/status for fresh results.")
		return
	}
	fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
	os.Exit(1)
}
