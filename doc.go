// Package arbiter is a strategy-based evaluation engine for LLM and
// agent outputs. It accepts a typed evaluation request, dispatches it
// to the matching algorithm (single, pairwise with position-bias
// mitigation, comprehensive multi-metric, skills, router, trajectory,
// custom metric, or static code analysis), drives the generation
// backend with a retry and budget-degradation policy, parses the
// judge's free-form output into structured scores, and returns a
// durable judgment record with a full step trace.
//
// A minimal evaluation:
//
//	client := llm.NewOllamaClient("http://localhost:11434")
//	engine, err := arbiter.New(client, "qwen2.5:7b")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	judgment, err := engine.Run(ctx, arbiter.PairwiseRequest{
//		Question:     "What is the capital of Australia?",
//		ResponseA:    "Canberra.",
//		ResponseB:    "Sydney.",
//		MitigateBias: true,
//	})
//
// Persistence is a caller concern: pass the returned judgment to a
// store.Store implementation, or use store.RunAndSave.
package arbiter
