// Package optimizer fits scheduling weights to a learner's review history.
//
// It provides two main capabilities:
//
//   - [Optimizer.ComputeOptimalParameters] trains the 21 memory-model
//     weights using mini-batch gradient descent with the [Adam] optimizer
//     and [CosineAnnealing] learning rate schedule. Gradients are computed
//     via numerical central differences on binary cross-entropy loss.
//
//   - [Optimizer.ComputeOptimalRetention] finds the desired retention value
//     that minimizes total review cost via Monte Carlo simulation.
//
// # Usage
//
//	opt := optimizer.NewOptimizer(optimizer.OptimizerConfig{})
//	weights, err := opt.ComputeOptimalParameters(ctx, logs)
//	retention, err := opt.ComputeOptimalRetention(ctx, weights, logs)
//
// # Data requirements
//
// Weight fitting needs enough cross-day reviews (at least MiniBatchSize,
// default 512): same-day repetitions carry no forgetting-curve signal.
// Optimal retention additionally requires DurationMS to be set on all
// review logs.
package optimizer
