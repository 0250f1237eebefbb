package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-plugin"

	providerrpc "walkread/internal/modules/health/adapter/out/rpc"
)

// server simulates a pedometer. Counts are deterministic per date so repeated
// queries agree, and today's count grows with the hour of day the way a real
// counter would.
type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *providerrpc.Empty) (*providerrpc.Metadata, error) {
	return &providerrpc.Metadata{Name: "stepsim", Version: "1.0.0"}, nil
}

func (s *server) TodaySteps(_ context.Context, _ *providerrpc.Empty) (*providerrpc.StepsResponse, error) {
	now := time.Now()
	full := dailySteps(now.Format("2006-01-02"))
	elapsed := float64(now.Hour()*60+now.Minute()) / (24 * 60)
	return &providerrpc.StepsResponse{Steps: int32(float64(full) * elapsed)}, nil
}

func (s *server) StepsForDate(_ context.Context, in *providerrpc.StepsForDateRequest) (*providerrpc.StepsResponse, error) {
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", in.Date, err)
	}
	return &providerrpc.StepsResponse{Steps: int32(dailySteps(in.Date))}, nil
}

// dailySteps hashes the date into a plausible 3000-12000 step day.
func dailySteps(date string) int {
	var hash uint32 = 2166136261
	for i := 0; i < len(date); i++ {
		hash ^= uint32(date[i])
		hash *= 16777619
	}
	return 3000 + int(hash%9001)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: providerrpc.HandshakeConfig,
		Plugins:         providerrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
