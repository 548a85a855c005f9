// Package script replays YAML operation scripts against a traced runtime.
//
// A script declares nodes and mutates the document step by step. Every
// node gets an id; "body" refers to the document body.
//
//	name: table
//	steps:
//	  - op: component
//	    id: cell1
//	    name: Cell
//	    tag: td
//	    hooks: [onAttach]
//	  - op: component
//	    id: cell2
//	    name: Cell
//	    tag: td
//	    hooks: [onAttach]
//	  - op: element
//	    id: row
//	    tag: tr
//	    children: [cell1, cell2]
//	  - op: component
//	    id: table
//	    name: Table
//	    tag: table
//	  - op: attach
//	    parent: body
//	    child: table
//	  - op: attach
//	    parent: table
//	    child: row
//	expect:
//	  - attach <tr> cell1
//	  - attach <tr> cell2
//	  - attach body table
//	  - attach table row
//	  - onAttach cell1
//	  - onAttach cell2
//
// Operations:
//   - component (alias create): construct a component rendering tag with
//     children, binding the listed hooks
//   - element: build a plain element with children
//   - text: build a text node
//   - fragment: build a fragment holding children
//   - attach: insert child, or the children list as one sequence, into
//     parent before the optional before node
//   - move: like attach, for a node that already has a parent
//   - detach: remove the run [start, end) from parent
//
// A Player records every notification and hook call as an Event. Nodes are
// named by id once their step completes, so attaches made while a node is
// still being built name it by tag, as in "<tr>" above. When the
// script has an expect list, Run compares it with the recorded events,
// ignoring create events.
package script
