// Package race runs a race session: one track, a grid of cars and the ECS
// systems that drive them, count laps and order the field. It has no
// rendering dependencies, so headless runs and tools share it with the game.
package race

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/components"
	"github.com/pthm-cable/driftloop/config"
	"github.com/pthm-cable/driftloop/systems"
	"github.com/pthm-cable/driftloop/telemetry"
	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/vehicle"
)

// Palette colours the grid in order; the player takes the first.
var Palette = []color.RGBA{
	{R: 230, G: 41, B: 55, A: 255},
	{R: 0, G: 121, B: 241, A: 255},
	{R: 253, G: 249, B: 0, A: 255},
	{R: 0, G: 228, B: 48, A: 255},
	{R: 255, G: 161, B: 0, A: 255},
	{R: 200, G: 122, B: 255, A: 255},
	{R: 102, G: 191, B: 255, A: 255},
	{R: 255, G: 109, B: 194, A: 255},
}

// Options configures a session.
type Options struct {
	Seed           int64
	Config         *config.Config // nil uses config.Cfg()
	Textures       track.Textures // nil uses uniform textures of the configured tile size
	Logger         *slog.Logger   // nil uses slog.Default()
	LogStats       bool           // Log window and perf stats via slog
	StatsWindowSec float64        // 0 uses the config value
	OutputDir      string         // Empty disables CSV output
	StatsCallback  func(telemetry.WindowStats)
}

// Session owns the world, the track and every car on it.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand

	world  *ecs.World
	mapper *ecs.Map4[components.Racer, components.Vehicle, components.Progress, components.Standing]
	racers *ecs.Map1[components.Racer]
	progs  *ecs.Map1[components.Progress]

	track    *track.Track
	entities []ecs.Entity // grid order
	cars     []*vehicle.Car
	player   *vehicle.Car

	driving   *systems.DrivingSystem
	progress  *systems.ProgressSystem
	standings *systems.StandingsSystem
	registry  *systems.SystemRegistry

	leaderboard []systems.Entry
	laps        []systems.LapEvent
	generation  uint64

	tick    int32
	simTime float64

	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	passedTotal   int
}

// NewSession builds the track, places the grid and opens output files.
func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	textures := opts.Textures
	if textures == nil {
		textures = track.UniformTextures(cfg.Track.SizePx)
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	world := ecs.NewWorld()

	s := &Session{
		cfg:    cfg,
		logger: logger,
		rng:    rng,
		world:  world,
		mapper: ecs.NewMap4[components.Racer, components.Vehicle, components.Progress, components.Standing](world),
		racers: ecs.NewMap1[components.Racer](world),
		progs:  ecs.NewMap1[components.Progress](world),

		track: track.New(textures, rng, cfg.Track, track.WithLogger(logger)),

		driving:   systems.NewDrivingSystem(world),
		progress:  systems.NewProgressSystem(world),
		standings: systems.NewStandingsSystem(world),
		registry:  systems.NewSystemRegistry(),

		collector:     telemetry.NewCollector(statsWindow, float32(cfg.Physics.DT)),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:        output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	s.spawnGrid()
	s.generation = s.track.Generation()
	s.leaderboard = s.standings.Update(world)

	logger.Info("race ready",
		"seed", opts.Seed,
		"cars", len(s.cars),
		"player", s.player != nil,
		"tiles", len(s.track.Tiles()),
		"detours", s.track.Detours(),
	)
	return s, nil
}

// spawnGrid creates one entity per car in grid order: the player (if any)
// on pole, then the AI field.
func (s *Session) spawnGrid() {
	total := s.cfg.Race.AICars
	if s.cfg.Race.Player {
		total++
	}
	for i := 0; i < total; i++ {
		isPlayer := s.cfg.Race.Player && i == 0
		mode := lo.Ternary(isPlayer, vehicle.ModePlayer, vehicle.ModeAI)
		car := vehicle.NewCar(s.track, s.rng, s.cfg.Car,
			vehicle.WithMode(mode),
			vehicle.WithAIConfig(s.cfg.AI),
		)
		car.ResetAt(s.gridSlot(i))

		racer := components.Racer{
			Name:   s.cfg.DriverName(i),
			Number: i + 1,
			Color:  Palette[i%len(Palette)],
			Player: isPlayer,
		}
		veh := components.Vehicle{Car: car}
		prog := components.Progress{}
		st := components.Standing{Position: i + 1}
		e := s.mapper.NewEntity(&racer, &veh, &prog, &st)

		s.entities = append(s.entities, e)
		s.cars = append(s.cars, car)
		if isPlayer {
			s.player = car
		}
	}
}

// Step advances the race by dt seconds of wall-clock frame time, clamped
// to [0, MaxFrameDT]. input drives the player car unless it is on autopilot.
func (s *Session) Step(input vehicle.Input, dt float64) {
	dt = lo.Clamp(dt, 0, s.cfg.Physics.MaxFrameDT)

	// Catches rebuilds made through Track() directly.
	s.syncTrack()

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseDriving)
	s.driving.Update(s.world, input, dt)

	s.perf.StartPhase(telemetry.PhaseProgress)
	s.laps = s.progress.Update(s.world, s.track.WaypointCount(), dt)

	s.perf.StartPhase(telemetry.PhaseStandings)
	s.leaderboard = s.standings.Update(s.world)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.tick++
	s.simTime += dt
	s.recordTelemetry()
	s.flushTelemetry()

	s.perf.EndTick()
}

// StepFixed advances the race by the configured fixed step.
func (s *Session) StepFixed(input vehicle.Input) {
	s.Step(input, s.cfg.Physics.DT)
}

// resetGrid puts every car back on the grid and clears race progress. Cars
// cache waypoint indices, so this must follow every track rebuild.
func (s *Session) resetGrid() {
	for i, car := range s.cars {
		car.ResetAt(s.gridSlot(i))
	}
	s.progress.ResetProgress(s.world)
	s.passedTotal = 0
	s.generation = s.track.Generation()
	s.leaderboard = s.standings.Update(s.world)
}

// RestartRace resets the grid without touching the track.
func (s *Session) RestartRace() {
	s.resetGrid()
	s.logger.Info("race restarted")
}

// syncTrack resets the grid if the track was rebuilt since the last reset.
func (s *Session) syncTrack() {
	if s.track.Generation() == s.generation {
		return
	}
	s.resetGrid()
	s.logger.Info("track rebuilt, grid reset",
		"generation", s.track.Generation(),
		"tiles", len(s.track.Tiles()),
	)
}

// SetTrackConfig rebuilds the track if cfg differs from the current one and
// puts the cars back on the new grid.
func (s *Session) SetTrackConfig(cfg track.Config) bool {
	rebuilt := s.track.SetConfig(cfg)
	s.syncTrack()
	return rebuilt
}

// RegenerateTrack draws a new layout with the current configuration.
func (s *Session) RegenerateTrack() {
	s.track.Regenerate()
	s.syncTrack()
}

// ResetTrack restores the default track configuration and rebuilds.
func (s *Session) ResetTrack() {
	s.track.Reset()
	s.syncTrack()
}

// SetAutopilot hands the player car to the AI driver, or back.
func (s *Session) SetAutopilot(on bool) {
	if s.player == nil {
		return
	}
	s.player.SetMode(lo.Ternary(on, vehicle.ModeAI, vehicle.ModePlayer))
}

// Autopilot reports whether the player car is AI-driven.
func (s *Session) Autopilot() bool {
	return s.player != nil && s.player.Mode() == vehicle.ModeAI
}

// Close flushes and closes output files.
func (s *Session) Close() error {
	return s.output.Close()
}

// Track returns the live track.
func (s *Session) Track() *track.Track { return s.track }

// Player returns the player car, or nil when the grid is all AI.
func (s *Session) Player() *vehicle.Car { return s.player }

// Cars returns every car in grid order.
func (s *Session) Cars() []*vehicle.Car { return s.cars }

// Entities returns every racer entity in grid order.
func (s *Session) Entities() []ecs.Entity { return s.entities }

// World exposes the ECS world for inspectors.
func (s *Session) World() *ecs.World { return s.world }

// Leaderboard returns the standings after the last step, leader first.
// The slice is reused by the next step.
func (s *Session) Leaderboard() []systems.Entry { return s.leaderboard }

// LapEvents returns the laps completed during the last step.
func (s *Session) LapEvents() []systems.LapEvent { return s.laps }

// Registry returns the system metadata used for perf display.
func (s *Session) Registry() *systems.SystemRegistry { return s.registry }

// Perf returns the step timing collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perf }

// Tick returns the number of steps taken.
func (s *Session) Tick() int32 { return s.tick }

// SimTime returns the simulated seconds elapsed.
func (s *Session) SimTime() float64 { return s.simTime }

// Config returns the session's configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Racer returns the racer and progress components of e.
func (s *Session) Racer(e ecs.Entity) (components.Racer, components.Progress, bool) {
	if !s.world.Alive(e) || !s.racers.HasAll(e) {
		return components.Racer{}, components.Progress{}, false
	}
	return *s.racers.Get(e), *s.progs.Get(e), true
}
