package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# TransformoDocs configuration
version: "1.0"

service:
  # Document-processing service (POST {base_url}{upload_path}, multipart)
  base_url: "http://localhost:5000"
  # MRC classifier (POST {mrc_base_url}{check_path}, JSON); empty uses base_url
  mrc_base_url: ""
  upload_path: "/upload"
  check_path: "/check-mrc"
  upload_field: "file"
  # Upper bound for a single request; exceeding it fails the submission
  timeout: 30s
  breaker:
    enabled: false
    min_requests: 5
    failure_ratio: 0.6
    open_timeout: 30s
    half_open_max_calls: 1

clipboard:
  # auto | system | osc52
  backend: "auto"
  notice_duration: 2s

ui:
  # upload | verify
  start_view: "upload"
  error_notice_duration: 6s

output:
  # text | json | markdown
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  verbose: false
  # Log destination while the interactive UI is running
  log_file: ""

watch:
  extensions: ["pdf", "docx", "xlsx", "zip", "txt"]
  debounce: 500ms
  initial_scan: false

serve:
  addr: ":5000"
  max_upload_bytes: 33554432
  temp_dir: ""
  metrics_path: "/metrics"
`
}

// MinimalSampleConfig returns a compact configuration with the essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
service:
  base_url: "http://localhost:5000"
  timeout: 30s
output:
  default_format: "text"
`
}
