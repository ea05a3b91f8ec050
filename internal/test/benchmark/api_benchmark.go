package benchmark

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIKeyHeader 服务端读取 API Key 的请求头
const APIKeyHeader = "X-API-Key"

// APIBenchmark 定义API基准测试结构
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	APIKey      string
	AuthToken   string
	Client      *resty.Client
}

// BenchmarkResult 定义基准测试结果
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

// RequestResult 定义单个请求的结果
type RequestResult struct {
	Duration   time.Duration
	StatusCode int
	Error      error
}

// NewAPIBenchmark 创建新的API基准测试实例
func NewAPIBenchmark(baseURL string, concurrency, requests int, apiKey, authToken string) *APIBenchmark {
	if concurrency < 1 {
		concurrency = 1
	}
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		APIKey:      apiKey,
		AuthToken:   authToken,
		Client: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// request 创建带认证头的请求；有 token 时优先使用 Bearer
func (b *APIBenchmark) request() *resty.Request {
	req := b.Client.R()
	switch {
	case b.AuthToken != "":
		req.SetAuthToken(b.AuthToken)
	case b.APIKey != "":
		req.SetHeader(APIKeyHeader, b.APIKey)
	}
	return req
}

// RunGET 执行GET请求的基准测试
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.runTest(http.MethodGet, b.BaseURL+path, nil)
}

// RunPOST 执行POST请求的基准测试
func (b *APIBenchmark) RunPOST(path string, payload interface{}) *BenchmarkResult {
	return b.runTest(http.MethodPost, b.BaseURL+path, payload)
}

// FetchToken 用 API Key 换取 JWT
func (b *APIBenchmark) FetchToken() (string, error) {
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}

	resp, err := b.Client.R().
		SetHeader(APIKeyHeader, b.APIKey).
		SetResult(&body).
		SetError(&body).
		Post(b.BaseURL + "/auth/token")
	if err != nil {
		return "", err
	}
	if resp.IsError() || body.Data.Token == "" {
		return "", fmt.Errorf("token exchange failed: status=%d message=%s", resp.StatusCode(), body.Message)
	}
	return body.Data.Token, nil
}

// runTest 执行基准测试
func (b *APIBenchmark) runTest(method, url string, payload interface{}) *BenchmarkResult {
	results := make(chan RequestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()

	// 创建工作池
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			start := time.Now()
			req := b.request()
			if payload != nil {
				req.SetBody(payload)
			}

			resp, err := req.Execute(method, url)
			if err != nil {
				results <- RequestResult{Error: err}
				return
			}

			results <- RequestResult{
				Duration:   time.Since(start),
				StatusCode: resp.StatusCode(),
			}
		}()
	}

	// 等待所有请求完成
	go func() {
		wg.Wait()
		close(results)
	}()

	result := collectResults(results)

	totalElapsed := time.Since(startTime)
	result.URL = url
	result.Method = method
	result.Concurrency = b.Concurrency
	result.TotalRequests = b.Requests
	result.TotalTime = totalElapsed
	if totalElapsed > 0 {
		result.RequestsPerSec = float64(b.Requests) / totalElapsed.Seconds()
	}
	return result
}

// collectResults 汇总单个请求结果；传输错误没有耗时，不计入耗时统计
func collectResults(results <-chan RequestResult) *BenchmarkResult {
	var minTime time.Duration = 1<<63 - 1
	var maxTime time.Duration
	var totalTime time.Duration
	successCount := 0
	failureCount := 0
	timedCount := 0
	statusCodes := make(map[int]int)
	var errs []string

	for result := range results {
		if result.Error != nil {
			failureCount++
			errs = append(errs, result.Error.Error())
			continue
		}

		timedCount++
		totalTime += result.Duration
		if result.Duration < minTime {
			minTime = result.Duration
		}
		if result.Duration > maxTime {
			maxTime = result.Duration
		}

		statusCodes[result.StatusCode]++
		if result.StatusCode >= 200 && result.StatusCode < 300 {
			successCount++
		} else {
			failureCount++
		}
	}

	averageTime := time.Duration(0)
	if timedCount > 0 {
		averageTime = totalTime / time.Duration(timedCount)
	} else {
		minTime = 0
	}

	return &BenchmarkResult{
		SuccessCount: successCount,
		FailureCount: failureCount,
		AverageTime:  averageTime,
		MinTime:      minTime,
		MaxTime:      maxTime,
		StatusCodes:  statusCodes,
		Errors:       errs,
	}
}

// PrintResult 打印基准测试结果
func (r *BenchmarkResult) PrintResult() {
	fmt.Printf("基准测试结果:\n")
	fmt.Printf("URL: %s\n", r.URL)
	fmt.Printf("方法: %s\n", r.Method)
	fmt.Printf("并发数: %d\n", r.Concurrency)
	fmt.Printf("总请求数: %d\n", r.TotalRequests)
	fmt.Printf("成功请求数: %d\n", r.SuccessCount)
	fmt.Printf("失败请求数: %d\n", r.FailureCount)
	fmt.Printf("总耗时: %s\n", r.TotalTime)
	fmt.Printf("平均耗时: %s\n", r.AverageTime)
	fmt.Printf("最小耗时: %s\n", r.MinTime)
	fmt.Printf("最大耗时: %s\n", r.MaxTime)
	fmt.Printf("每秒请求数: %.2f\n", r.RequestsPerSec)
	fmt.Printf("状态码分布:\n")
	for code, count := range r.StatusCodes {
		fmt.Printf("  %d: %d\n", code, count)
	}
	if len(r.Errors) > 0 {
		fmt.Printf("错误信息 (最多显示5个):\n")
		for i, err := range r.Errors {
			if i >= 5 {
				fmt.Printf("  ... 还有 %d 个错误\n", len(r.Errors)-5)
				break
			}
			fmt.Printf("  %s\n", err)
		}
	}
}
