package board_test

import (
	"fmt"
	"log"

	"github.com/dyluth/kanban/pkg/board"
)

func ExampleBoard_MoveTask() {
	b := board.Default()
	b, err := b.AddTask(board.Task{ID: "t1", Title: "Write docs", ColumnID: "todo"})
	if err != nil {
		log.Fatal(err)
	}
	b, _, err = b.MoveTask("t1", "todo", "done", 0)
	if err != nil {
		log.Fatal(err)
	}

	done, _ := b.Column("done")
	fmt.Println(done.TaskIDs)
	// Output: [t1]
}
