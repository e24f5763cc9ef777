package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	username    string
	password    string
)

// Metrics
var (
	totalRequests uint64
	success201    uint64
	fail4xx       uint64
	failOther     uint64
	creditTotal   int64 // signed sum of amounts posted to the hot account
)

const hotAccount = "user0001@example.com"

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "credit", "Workload type: credit | transfer")
	flag.StringVar(&username, "user", os.Getenv("LEDGER_ADMIN_USERNAME"), "Admin username")
	flag.StringVar(&password, "pass", os.Getenv("LEDGER_ADMIN_PASSWORD"), "Admin password")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	before := fetchBalance(hotAccount)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()

	after := fetchBalance(hotAccount)
	printResults(time.Since(start), before, after)
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		var path string
		var payload map[string]interface{}
		amount := int64(5)

		if workload == "transfer" {
			path = "/transfers"
			payload = map[string]interface{}{
				"fromEmail": hotAccount,
				"toEmail":   fmt.Sprintf("user%04d@example.com", 2+rand.Intn(998)),
				"amount":    amount,
				"createdAt": time.Now().UTC().Format(time.RFC3339Nano),
			}
			amount = -amount
		} else {
			path = "/transactions"
			payload = map[string]interface{}{
				"userEmail": hotAccount,
				"amount":    amount,
				"type":      "credit",
				"createdAt": time.Now().UTC().Format(time.RFC3339Nano),
			}
		}

		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", targetURL+path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(username, password)

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch {
		case resp.StatusCode == 201:
			atomic.AddUint64(&success201, 1)
			atomic.AddInt64(&creditTotal, amount)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			atomic.AddUint64(&fail4xx, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func fetchBalance(email string) int64 {
	client := &http.Client{Timeout: 5 * time.Second}
	req, _ := http.NewRequest("GET", targetURL+"/accounts/"+email+"/balance", nil)
	req.SetBasicAuth(username, password)

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Balance fetch failed: %v", err)
		return 0
	}
	defer resp.Body.Close()

	var balance int64
	json.NewDecoder(resp.Body).Decode(&balance)
	return balance
}

func printResults(d time.Duration, before, after int64) {
	total := atomic.LoadUint64(&totalRequests)
	s201 := atomic.LoadUint64(&success201)
	f4xx := atomic.LoadUint64(&fail4xx)
	fErr := atomic.LoadUint64(&failOther)
	expected := atomic.LoadInt64(&creditTotal)

	tps := float64(total) / d.Seconds()

	// The ledger invariant: the derived balance must have moved by exactly
	// the sum of the committed writes.
	results := map[string]interface{}{
		"workload":         workload,
		"duration_sec":     d.Seconds(),
		"total_requests":   total,
		"throughput_tps":   tps,
		"success_created":  s201,
		"client_errors":    f4xx,
		"errors":           fErr,
		"balance_before":   before,
		"balance_after":    after,
		"expected_delta":   expected,
		"observed_delta":   after - before,
		"delta_consistent": after-before == expected,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
