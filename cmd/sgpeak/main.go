// Command sgpeak finds promoter peaks in PRI/IGI score tracks.
//
// Usage:
//
//	sgpeak find [flags] PRI IGI IGI [PRI IGI IGI ...]
//	sgpeak kernel [flags]
//
// Examples:
//
//	sgpeak find Chr1_scan_IGI200_60_forward.txt Chr1_scan_IGI750_450_forward.txt Chr1_scan_PRI200_60-750_450_forward.txt
//	sgpeak find --window 101 --jobs 4 --output-dir peaks/ scans/*.txt
//	sgpeak kernel --window 7 --degree 2
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/cwbudde/algo-sgpeak/cmd/sgpeak/app"
)

func main() {
	klog.InitFlags(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.NewRootCommand(ctx).Execute()
	stop()
	klog.Flush()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
