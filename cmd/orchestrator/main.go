// Command orchestrator wires the reference source scrapers into a
// ScrapingService and runs one idea validation job end to end. It supports
// both a plain CLI invocation and an optional AWS Lambda handler mode,
// dispatched at startup by checking for the Lambda runtime environment.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/criztiandev/ideavalidator/internal/models"
	"github.com/criztiandev/ideavalidator/internal/orchestrator"
	"github.com/criztiandev/ideavalidator/internal/scraper/appdirectory"
	"github.com/criztiandev/ideavalidator/internal/scraper/communityboard"
)

// ValidationEvent is the Lambda trigger payload: the idea text to validate.
type ValidationEvent struct {
	IdeaText string `json:"idea_text"`
}

// ValidationResponse is the Lambda handler's return shape.
type ValidationResponse struct {
	Success bool                   `json:"success"`
	Result  models.AggregatedResult `json:"result"`
}

// buildService registers the reference scrapers and returns a ready-to-use
// ScrapingService. Real deployments would register many more sources; this
// wires the two this repository implements.
func buildService() *orchestrator.ScrapingService {
	svc := orchestrator.New(orchestrator.DefaultConfig())

	svc.Register(communityboard.New("CommunityBoard", communityboard.DefaultConfig(), nil))

	appCfg := appdirectory.DefaultConfig()
	appCfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	svc.Register(appdirectory.New("AppDirectory", appCfg, func(ctx context.Context, query string) (string, error) {
		return "", fmt.Errorf("no directory client configured for query %q", query)
	}))

	return svc
}

// HandleValidationEvent is the Lambda entry point.
func HandleValidationEvent(ctx context.Context, event ValidationEvent) (ValidationResponse, error) {
	svc := buildService()
	defer svc.Close()

	result := svc.Scrape(ctx, event.IdeaText)
	return ValidationResponse{Success: result.Metadata.SourcesSuccessful > 0, Result: result}, nil
}

func runCLI() {
	ideaText := os.Getenv("IDEA_TEXT")
	if ideaText == "" && len(os.Args) > 1 {
		ideaText = os.Args[1]
	}
	if ideaText == "" {
		log.Fatal("usage: orchestrator <idea text> (or set IDEA_TEXT)")
	}

	svc := buildService()
	defer svc.Close()

	log.Printf("registered sources: %v", svc.ListSources())
	start := time.Now()
	result := svc.Scrape(context.Background(), ideaText)
	log.Printf("scrape completed in %s", time.Since(start))

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal result: %v", err)
	}
	fmt.Println(string(out))
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(HandleValidationEvent)
		return
	}
	runCLI()
}
