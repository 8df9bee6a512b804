// Command gen-shelf writes the starter reagent shelf as markdown files
// that `burette --shelf` can load. It is the editor for the documents
// the loam catalog reads back.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/loam"

	"github.com/aretw0/burette/internal/dto"
	"github.com/aretw0/burette/pkg/adapters/memory"
)

func main() {
	targetDir := "examples/shelf"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating reagent shelf in: %s\n", targetDir)

	// No versioning: pure file generation.
	repo, err := loam.Init(targetDir, loam.WithVersioning(false))
	if err != nil {
		panic(err)
	}

	typedRepo := loam.NewTypedRepository[dto.ReagentMeta](repo)
	ctx := context.TODO()

	for _, r := range memory.StandardShelf() {
		err := typedRepo.Save(ctx, &loam.DocumentModel[dto.ReagentMeta]{
			ID:      r.ID,
			Content: r.Description,
			Data:    dto.FromReagent(r),
		})
		check(err)
		fmt.Println("- " + r.ID)
	}

	fmt.Println("Done. Verify contents in", targetDir)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
