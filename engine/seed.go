package engine

import (
	"time"

	"github.com/flowd-io/flowd/workflow"
)

// Seed registers the built-in workflow definitions with the engine's
// catalog. Seeded definitions use stable slug IDs so that schedules and
// clients can reference them across restarts.
func (e *Engine) Seed() error {
	for _, def := range SeedDefinitions() {
		if err := e.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// SeedDefinitions returns the built-in workflow definitions.
func SeedDefinitions() []*workflow.Definition {
	return []*workflow.Definition{
		dataProcessingWorkflow(),
		contentGenerationWorkflow(),
		apiIntegrationWorkflow(),
		analyticsReportWorkflow(),
		newsPublishingWorkflow(),
	}
}

func dataProcessingWorkflow() *workflow.Definition {
	return &workflow.Definition{
		ID:          "data-processing",
		Name:        "Data Processing Pipeline",
		Description: "ETL workflow for processing business data",
		Tasks: []workflow.Task{
			{
				ID:         "extract",
				Name:       "Extract Data",
				Kind:       workflow.KindDatabaseOperation,
				Operation:  "SELECT * FROM raw_data",
				Parameters: map[string]any{"table": "raw_data", "limit": 1000},
				Timeout:    5 * time.Minute,
			},
			{
				ID:         "transform",
				Name:       "Transform Data",
				Kind:       workflow.KindCustomScript,
				ScriptType: "data_transformation",
				Parameters: map[string]any{"rules": "business_logic.json"},
				Timeout:    10 * time.Minute,
			},
			{
				ID:         "load",
				Name:       "Load Data",
				Kind:       workflow.KindDatabaseOperation,
				Operation:  "INSERT INTO processed_data",
				Parameters: map[string]any{"table": "processed_data", "batch_size": 100},
				Timeout:    5 * time.Minute,
			},
		},
		Dependencies: map[string][]string{
			"transform": {"extract"},
			"load":      {"transform"},
		},
		Timeout:   30 * time.Minute,
		Retry:     workflow.DefaultRetryPolicy(),
		CreatedAt: time.Now(),
	}
}

func contentGenerationWorkflow() *workflow.Definition {
	return &workflow.Definition{
		ID:          "content-generation",
		Name:        "Content Generation Pipeline",
		Description: "Automated content creation and publishing workflow",
		Tasks: []workflow.Task{
			{
				ID:         "generate_content",
				Name:       "Generate Content",
				Kind:       workflow.KindTemplateGeneration,
				TemplateID: "blog_post",
				Parameters: map[string]any{"topic": "AI Technology", "length": "medium"},
				Timeout:    2 * time.Minute,
			},
			{
				ID:         "review_content",
				Name:       "Review Content",
				Kind:       workflow.KindCustomScript,
				ScriptType: "content_review",
				Parameters: map[string]any{"quality_threshold": 0.8},
				Timeout:    time.Minute,
			},
			{
				ID:         "publish_content",
				Name:       "Publish Content",
				Kind:       workflow.KindAPICall,
				Endpoint:   "content_management_system",
				Method:     "POST",
				Parameters: map[string]any{"channel": "blog", "schedule": "immediate"},
				Timeout:    30 * time.Second,
			},
		},
		Dependencies: map[string][]string{
			"review_content":  {"generate_content"},
			"publish_content": {"review_content"},
		},
		Timeout:   5 * time.Minute,
		Retry:     workflow.DefaultRetryPolicy(),
		CreatedAt: time.Now(),
	}
}

func apiIntegrationWorkflow() *workflow.Definition {
	return &workflow.Definition{
		ID:          "api-integration",
		Name:        "API Integration Workflow",
		Description: "Orchestrate multiple external API calls",
		Tasks: []workflow.Task{
			{
				ID:         "fetch_data",
				Name:       "Fetch External Data",
				Kind:       workflow.KindAPICall,
				Endpoint:   "weather_api",
				Method:     "GET",
				Parameters: map[string]any{"location": "San Francisco", "units": "metric"},
				Timeout:    30 * time.Second,
			},
			{
				ID:         "process_data",
				Name:       "Process API Response",
				Kind:       workflow.KindCustomScript,
				ScriptType: "data_processing",
				Parameters: map[string]any{"format": "standardized"},
				Timeout:    time.Minute,
			},
			{
				ID:         "store_results",
				Name:       "Store Processed Data",
				Kind:       workflow.KindDatabaseOperation,
				Operation:  "INSERT INTO api_results",
				Parameters: map[string]any{"table": "api_results"},
				Timeout:    30 * time.Second,
			},
		},
		Dependencies: map[string][]string{
			"process_data":  {"fetch_data"},
			"store_results": {"process_data"},
		},
		Timeout:   3 * time.Minute,
		Retry:     workflow.DefaultRetryPolicy(),
		CreatedAt: time.Now(),
	}
}

func analyticsReportWorkflow() *workflow.Definition {
	return &workflow.Definition{
		ID:          "analytics-report",
		Name:        "Analytics Report Generation",
		Description: "Automated analytics reporting workflow",
		Tasks: []workflow.Task{
			{
				ID:         "collect_metrics",
				Name:       "Collect Analytics Metrics",
				Kind:       workflow.KindAnalyticsCollection,
				MetricType: "engagement",
				Parameters: map[string]any{"period": "last_week", "granularity": "daily"},
				Timeout:    2 * time.Minute,
			},
			{
				ID:         "generate_report",
				Name:       "Generate Report",
				Kind:       workflow.KindTemplateGeneration,
				TemplateID: "analytics_report",
				Parameters: map[string]any{"format": "pdf", "include_charts": true},
				Timeout:    3 * time.Minute,
			},
			{
				ID:         "distribute_report",
				Name:       "Distribute Report",
				Kind:       workflow.KindAPICall,
				Endpoint:   "email_service",
				Method:     "POST",
				Parameters: map[string]any{"recipients": []string{"team@company.com"}, "subject": "Weekly Analytics Report"},
				Timeout:    time.Minute,
			},
		},
		Dependencies: map[string][]string{
			"generate_report":   {"collect_metrics"},
			"distribute_report": {"generate_report"},
		},
		Timeout:   8 * time.Minute,
		Retry:     workflow.DefaultRetryPolicy(),
		CreatedAt: time.Now(),
	}
}

func newsPublishingWorkflow() *workflow.Definition {
	return &workflow.Definition{
		ID:          "news-publishing",
		Name:        "News Publishing Pipeline",
		Description: "Automated news content processing and publishing",
		Tasks: []workflow.Task{
			{
				ID:         "fetch_news",
				Name:       "Fetch Latest News",
				Kind:       workflow.KindNewsProcessing,
				Category:   "technology",
				Parameters: map[string]any{"limit": 10, "language": "en"},
				Timeout:    time.Minute,
			},
			{
				ID:         "analyze_content",
				Name:       "Analyze News Content",
				Kind:       workflow.KindCustomScript,
				ScriptType: "content_analysis",
				Parameters: map[string]any{"sentiment_analysis": true, "topic_extraction": true},
				Timeout:    2 * time.Minute,
			},
			{
				ID:         "create_summary",
				Name:       "Create News Summary",
				Kind:       workflow.KindTemplateGeneration,
				TemplateID: "news_summary",
				Parameters: map[string]any{"style": "professional", "length": "brief"},
				Timeout:    90 * time.Second,
			},
			{
				ID:         "publish_summary",
				Name:       "Publish Summary",
				Kind:       workflow.KindAPICall,
				Endpoint:   "social_media_api",
				Method:     "POST",
				Parameters: map[string]any{"platforms": []string{"twitter", "linkedin"}, "schedule": "immediate"},
				Timeout:    30 * time.Second,
			},
		},
		Dependencies: map[string][]string{
			"analyze_content": {"fetch_news"},
			"create_summary":  {"analyze_content"},
			"publish_summary": {"create_summary"},
		},
		Timeout:   7 * time.Minute,
		Retry:     workflow.DefaultRetryPolicy(),
		CreatedAt: time.Now(),
	}
}
