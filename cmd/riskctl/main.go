package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "exposures":
		exposuresCmd(os.Args[2:])
	case "orders":
		ordersCmd(os.Args[2:])
	case "arbitrage":
		arbitrageCmd(os.Args[2:])
	case "wipe":
		wipeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println(`riskctl - shadowbook operator CLI

Usage:
  riskctl exposures [-addr http://localhost:3100]
  riskctl orders    [-limit 100] [-addr http://localhost:3100]
  riskctl arbitrage [-addr http://localhost:3100]
  riskctl wipe      [-addr http://localhost:3100]

Examples:
  riskctl exposures
  riskctl orders -limit 20
  riskctl wipe -addr http://riskd.internal:3100`)
}

func baseFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:3100", "riskd base URL")
	return fs, addr
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func exposuresCmd(args []string) {
	fs, addr := baseFlagSet("exposures")
	fs.Parse(args)
	printGet(*addr + "/exposures")
}

func ordersCmd(args []string) {
	fs, addr := baseFlagSet("orders")
	limit := fs.Int("limit", 100, "max rows to return")
	fs.Parse(args)
	printGet(fmt.Sprintf("%s/orders?limit=%d", *addr, *limit))
}

func arbitrageCmd(args []string) {
	fs, addr := baseFlagSet("arbitrage")
	fs.Parse(args)
	printGet(*addr + "/arbitrage")
}

func wipeCmd(args []string) {
	fs, addr := baseFlagSet("wipe")
	fs.Parse(args)

	resp, err := httpClient.Post(*addr+"/admin/wipe", "application/json", bytes.NewReader(nil))
	if err != nil {
		fatalf("wipe request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		fatalf("wipe failed: %s: %s", resp.Status, string(body))
	}
	fmt.Println("ledger and order book wiped")
}

func printGet(url string) {
	resp, err := httpClient.Get(url)
	if err != nil {
		fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fatalf("read response: %v", err)
	}

	if resp.StatusCode >= 300 {
		fatalf("request failed: %s: %s", resp.Status, string(body))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
