package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"urbanmind-be/internal/config"
	"urbanmind-be/internal/constant"
	"urbanmind-be/internal/entity"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/pkg/analysis"
	"urbanmind-be/pkg/conversation"

	"github.com/fatih/color"
)

const help = `Commands:
  /methods            list reasoning methods
  /method <value>     switch reasoning method
  /upload <names...>  record document names
  /status             show the current state
  /region             show the planning region
  /quit               exit
Anything else is sent as a message.`

func main() {
	cfg := config.Load()
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	defer sysLogger.Sync()

	changes := make(chan conversation.Change, 16)
	ctrl := conversation.NewController(
		conversation.WithAnalyzer(analysis.NewSimulatedAnalyzer(cfg.Analysis.Delay)),
		conversation.WithLogger(sysLogger),
		conversation.WithNotifier(forward(changes)),
	)
	defer ctrl.Close()

	go render(changes)

	ctx := context.Background()
	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Cyan("UrbanMind AI (session %s)", snap.SessionId)
	if msg, ok := snap.LastMessage(); ok {
		printMessage(msg)
	}
	fmt.Println(help)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if quit := handleLine(ctx, ctrl, line); quit {
			return
		}
	}
}

func handleLine(ctx context.Context, ctrl *conversation.Controller, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		if _, err := ctrl.SubmitMessage(ctx, line); err != nil {
			color.Red("%v", err)
		} else {
			color.Yellow("Analyzing...")
		}
		return false
	}

	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Println(help)
	case "/methods":
		current, _ := ctrl.ReasoningMethod(ctx)
		for _, info := range entity.ReasoningMethods() {
			marker := " "
			if info.Method == current {
				marker = "*"
			}
			fmt.Printf("%s %-20s %-20s %s\n", marker, info.Method, info.Label, info.Description)
		}
	case "/method":
		if len(fields) < 2 {
			color.Red("usage: /method <value>")
			return false
		}
		method, err := entity.ParseReasoningMethod(fields[1])
		if err != nil {
			color.Red("%v", err)
			return false
		}
		if err := ctrl.SetReasoningMethod(ctx, method); err != nil {
			color.Red("%v", err)
			return false
		}
		color.Green("Reasoning method: %s", method.Label())
	case "/upload":
		if err := ctrl.RecordUploadedDocuments(ctx, fields[1:]); err != nil {
			color.Red("%v", err)
			return false
		}
		color.Green("Recorded %d document(s)", len(fields)-1)
	case "/status":
		printStatus(ctx, ctrl)
	case "/region":
		printRegion(constant.WaterlooRegionProfile())
	default:
		color.Red("unknown command %s", fields[0])
	}
	return false
}

// forward hands every change to render. The send blocks rather than drops;
// render never stops draining, so the loop waits at most one print.
func forward(changes chan<- conversation.Change) conversation.Notifier {
	return conversation.NotifierFunc(func(ch conversation.Change) {
		changes <- ch
	})
}

func render(changes <-chan conversation.Change) {
	for ch := range changes {
		switch ch.Kind {
		case conversation.ChangeAnalysisCompleted:
			if msg, ok := ch.Snapshot.LastMessage(); ok {
				printMessage(msg)
			}
			if n := ch.Snapshot.Analysis.LastNarrative; n != nil {
				fmt.Println(*n)
			}
			printCandidates(ch.Snapshot.Analysis.LastCandidates)
		case conversation.ChangeAnalysisFailed:
			color.Red("Analysis failed: %s", ch.Snapshot.Analysis.LastError)
		}
	}
}

func printMessage(msg entity.Message) {
	if msg.Role == entity.MessageRoleAssistant {
		color.Cyan("AI: %s", msg.Text)
		return
	}
	color.White("You: %s", msg.Text)
}

func printCandidates(candidates []entity.LocationCandidate) {
	color.Green("Selected parcels:")
	for _, c := range candidates {
		fmt.Printf("  %s  %-32s %5.1f acres  score %3d  %s\n", c.Id, c.Address, c.AreaAcres, c.SuitabilityScore, c.Rationale)
	}
}

func printStatus(ctx context.Context, ctrl *conversation.Controller) {
	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		color.Red("%v", err)
		return
	}
	fmt.Printf("method: %s\nmessages: %d\nrunning: %t\n", snap.ReasoningMethod.Label(), len(snap.Transcript), snap.Analysis.Running)
	names := make([]string, 0, len(snap.UploadedDocuments))
	for _, d := range snap.UploadedDocuments {
		names = append(names, d.Name)
	}
	fmt.Printf("documents: %s\n", strings.Join(names, ", "))
	if len(snap.Analysis.LastCandidates) > 0 {
		printCandidates(snap.Analysis.LastCandidates)
	}
}

func printRegion(p entity.RegionProfile) {
	color.Cyan("%s: %s", p.Region, p.Task)
	fmt.Printf("  minimum parcel: %s\n", p.Constraints.MinimumParcelSize)
	fmt.Printf("  zoning: %s\n", strings.Join(p.Constraints.ZoningRequirements, ", "))
	fmt.Printf("  transit within %s, arterial within %s\n", p.Constraints.MaxDistanceTransit, p.Constraints.MaxDistanceArterial)
	fmt.Printf("  excluded: %s\n", strings.Join(p.Constraints.Exclusions, ", "))
	for _, ds := range p.DataSources {
		fmt.Printf("  [%s] %s %s\n", ds.Category, ds.Name, ds.URL)
	}
}
