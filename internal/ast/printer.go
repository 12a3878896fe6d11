package ast

import (
	"fmt"
	"strings"
)

func (s *Script) String() string {
	var b strings.Builder
	for _, stmt := range s.Body {
		b.WriteString(stmt.String())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Module) String() string {
	var b strings.Builder
	for _, item := range m.Body {
		b.WriteString(item.String())
		b.WriteString("\n")
	}
	return b.String()
}

func (si *StmtItem) String() string {
	return si.Stmt.String()
}

func (md *ModuleDecl) String() string {
	if md.Source != "" {
		return md.Source
	}
	return md.Kind.String()
}

func (v *VarDecl) String() string {
	decls := make([]string, len(v.Decls))
	for i, d := range v.Decls {
		decls[i] = d.String()
	}
	return fmt.Sprintf("%s %s;", v.Kind, strings.Join(decls, ", "))
}

func (d *Declarator) String() string {
	if d.Init == nil {
		return d.Name.String()
	}
	return fmt.Sprintf("%s = %s", d.Name, d.Init)
}

func (e *ExprStmt) String() string {
	return e.Expr.String() + ";"
}

func (b *BlockStmt) String() string {
	if len(b.Stmts) == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	for _, stmt := range b.Stmts {
		sb.WriteString("  " + strings.ReplaceAll(stmt.String(), "\n", "\n  ") + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (i *IfStmt) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", w.Cond, w.Body)
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}

func (*EmptyStmt) String() string {
	return ";"
}

func (n *NumberLit) String() string {
	if n.Raw != "" {
		return n.Raw
	}
	return fmt.Sprintf("%d", n.Value)
}

func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (i *Ident) String() string {
	return i.Name
}

func (a *AssignExpr) String() string {
	return fmt.Sprintf("%s %s %s", a.Target, a.Op, a.Value)
}

// String parenthesizes every binary node so the tree shape is visible
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

func (u *UnaryExpr) String() string {
	return u.Op.String() + u.Operand.String()
}

func (u *UpdateExpr) String() string {
	if u.Prefix {
		return u.Op.String() + u.Target.String()
	}
	return u.Target.String() + u.Op.String()
}

func (p *ParenExpr) String() string {
	return "(" + p.Expr.String() + ")"
}

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}
