// Package streamal is a Go implementation of stream-based active learning:
// decision engines that watch an unbounded instance stream and decide, per
// instance, whether its true label is worth the cost of asking for it.
//
// Two engines are provided, both trading labeling spend against prequential
// accuracy:
//
//   - weighting: a per-instance acceptance test built on a counterfactual
//     retraining probe. The engine asks whether training a copy of the
//     learner on the opposing label at the current confidence threshold
//     weight would flip its opinion, and adapts the threshold from every
//     acquired label.
//
//   - ensemble: a windowed acceptance test over a growing ensemble of
//     pairwise classifiers with per-member reliability weights. Closed
//     windows are retained at exponentially decaying weights and the
//     ensemble is rebuilt from them every cycle, which is what lets it
//     follow concept drift.
//
// Key Components:
//
//   - Core: the Instance, Learner, Posterior and AcquisitionEngine contracts
//     shared by every engine.
//
//   - Learner: reference implementations (majority class, Gaussian naive
//     Bayes) usable as engine base learners.
//
//   - Budget: the shared labeling budget controller enforced by both engines.
//
//   - Datasets: CSV, Parquet and synthetic drifting-Gaussian instance
//     streams, with a cached loader.
//
//   - Evaluation: prequential (test-then-train) runs and concurrent engine
//     comparisons.
//
//   - Journal: in-memory and SQLite sinks for run snapshots.
//
//   - Telemetry: Prometheus export of engine state during a run.
//
// The cmd/streamal-cli module wraps all of this behind a command line.
package streamal
