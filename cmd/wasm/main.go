//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"docrank/internal/adapter/chunker"
	"docrank/internal/adapter/embedding"
	"docrank/internal/adapter/memstore"
	"docrank/internal/adapter/retriever"
	"docrank/internal/domain"
	"docrank/internal/usecase"
)

var (
	source    *memstore.MemorySource
	extractor *chunker.HeadingExtractor
	splitter  *chunker.SubsectionSplitter
	ranker    *retriever.RelevanceRanker
)

func init() {
	source = memstore.NewMemorySource()
	extractor = chunker.NewHeadingExtractor(chunker.DefaultMinTitleLength, chunker.DefaultContextLines)
	splitter = chunker.NewSubsectionSplitter(chunker.DefaultMinFragmentLength)
	ranker = retriever.NewRelevanceRanker(embedding.NewHashingEmbedder(384))
}

func main() {
	c := make(chan struct{})

	js.Global().Set("docrankAdd", js.FuncOf(addDocument))
	js.Global().Set("docrankAnalyze", js.FuncOf(analyze))
	js.Global().Set("docrankClear", js.FuncOf(clearDocuments))
	js.Global().Set("docrankStats", js.FuncOf(getStats))

	<-c
}

func addDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: docrankAdd(filename, content)")
	}

	filename := args[0].String()
	content := args[1].String()
	source.Put(filename, content)

	return makeResult(map[string]interface{}{
		"success":  true,
		"filename": filename,
	})
}

func analyze(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: docrankAnalyze(role, task, [topK])")
	}

	topK := 5
	if len(args) > 2 {
		topK = args[2].Int()
	}

	input := domain.Input{
		Persona:     domain.Persona{Role: args[0].String()},
		JobToBeDone: domain.JobToBeDone{Task: args[1].String()},
	}
	for _, name := range source.Names() {
		input.Documents = append(input.Documents, domain.InputDocument{Filename: name})
	}

	extractUC := usecase.NewExtractUseCase(source, extractor, nil, 1)
	analyzeUC := usecase.NewAnalyzeUseCase(extractUC, ranker, splitter, nil, topK, 2)

	out, err := analyzeUC.Analyze(context.Background(), input, "", nil)
	if err != nil {
		return makeError("analysis failed: " + err.Error())
	}

	result, _ := json.Marshal(out)
	return string(result)
}

func clearDocuments(this js.Value, args []js.Value) interface{} {
	source.Clear()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	names := source.Names()
	return makeResult(map[string]interface{}{
		"totalDocs":  len(names),
		"totalPages": source.PageCount(),
		"files":      names,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
