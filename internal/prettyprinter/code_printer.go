package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/memoc/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Expression precedence (higher = binds tighter)
const (
	precLowest = iota
	precAssign
	precConditional
	precNullish
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precCompare
	precSum
	precProduct
	precPower
	precPrefix
	precPostfix
	precCall
	precPrimary
)

var operatorPrecedence = map[string]int{
	"??":         precNullish,
	"||":         precOr,
	"&&":         precAnd,
	"|":          precBitOr,
	"^":          precBitXor,
	"&":          precBitAnd,
	"==":         precEquality,
	"!=":         precEquality,
	"===":        precEquality,
	"!==":        precEquality,
	"<":          precCompare,
	">":          precCompare,
	"<=":         precCompare,
	">=":         precCompare,
	"instanceof": precCompare,
	"in":         precCompare,
	"+":          precSum,
	"-":          precSum,
	"*":          precProduct,
	"/":          precProduct,
	"%":          precProduct,
	"**":         precPower,
}

func precedenceOf(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		if e.IsAssignment() {
			return precAssign
		}
		if p, ok := operatorPrecedence[e.Operator]; ok {
			return p
		}
		return precCompare
	case *ast.ArrowFunction:
		return precAssign
	case *ast.ConditionalExpression:
		return precConditional
	case *ast.PrefixExpression:
		return precPrefix
	case *ast.PostfixExpression:
		return precPostfix
	case *ast.CallExpression, *ast.MemberExpression, *ast.IndexExpression, *ast.NewExpression:
		return precCall
	}
	return precPrimary
}

func isRightAssoc(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		return e.IsAssignment() || e.Operator == "**"
	case *ast.ConditionalExpression, *ast.ArrowFunction:
		return true
	}
	return false
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders n as source code.
func Print(n ast.Node) string {
	p := NewCodePrinter()
	n.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	prec := precedenceOf(expr)
	needParens := prec < parentPrec
	if prec == parentPrec && prec < precPrimary {
		needParens = isRight != isRightAssoc(expr)
	}
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printAnnotationsInline(annots []*ast.Annotation) {
	for _, a := range annots {
		a.Accept(p)
		p.write(" ")
	}
}

func (p *CodePrinter) printAnnotationsBlock(annots []*ast.Annotation) {
	for _, a := range annots {
		a.Accept(p)
		p.writeln()
		p.writeIndent()
	}
}

// printBody prints a statement in the body position of if/while/for.
func (p *CodePrinter) printBody(stmt ast.Statement) {
	if _, ok := stmt.(*ast.BlockStatement); ok {
		p.write(" ")
		stmt.Accept(p)
		return
	}
	p.indent++
	p.writeln()
	p.writeIndent()
	stmt.Accept(p)
	p.indent--
}

func (p *CodePrinter) printTypeParams(params []*ast.TypeParameter) {
	if len(params) == 0 {
		return
	}
	p.write("<")
	for i, tp := range params {
		if i > 0 {
			p.write(", ")
		}
		tp.Accept(p)
	}
	p.write(">")
}

func (p *CodePrinter) printTypeArgs(args []ast.Type) {
	if len(args) == 0 {
		return
	}
	p.write("<")
	for i, t := range args {
		if i > 0 {
			p.write(", ")
		}
		t.Accept(p)
	}
	p.write(">")
}

func (p *CodePrinter) printSignature(sig *ast.Signature, arrowReturn bool) {
	p.printTypeParams(sig.TypeParams)
	p.write("(")
	for i, param := range sig.Parameters {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(")")
	if sig.ReturnType == nil {
		return
	}
	if arrowReturn {
		p.write(" => ")
	} else {
		p.write(": ")
	}
	sig.ReturnType.Accept(p)
}

func (p *CodePrinter) printArguments(args []ast.Expression) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, precAssign, true)
	}
	p.write(")")
}

func (p *CodePrinter) printOptionalBody(body *ast.BlockStatement) {
	if body == nil {
		p.write(";")
		return
	}
	p.write(" ")
	body.Accept(p)
}

// --- program and declarations ---

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		if stmt != nil {
			stmt.Accept(p)
		} else {
			p.write("<???>")
		}
		p.writeln()
	}
}

func (p *CodePrinter) VisitAnnotation(n *ast.Annotation) {
	p.write("@" + n.Name)
}

func (p *CodePrinter) VisitParameter(n *ast.Parameter) {
	p.printAnnotationsInline(n.Annotations)
	if n.Rest {
		p.write("...")
	}
	n.Name.Accept(p)
	if n.Optional {
		p.write("?")
	}
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Default != nil {
		p.write(" = ")
		p.printExpr(n.Default, precAssign, true)
	}
}

func (p *CodePrinter) VisitImportDeclaration(n *ast.ImportDeclaration) {
	p.write("import ")
	if n.TypeOnly {
		p.write("type ")
	}
	if n.Default == nil && len(n.Specifiers) == 0 {
		n.Module.Accept(p)
		p.write(";")
		return
	}
	if n.Default != nil {
		n.Default.Accept(p)
		if len(n.Specifiers) > 0 {
			p.write(", ")
		}
	}
	if len(n.Specifiers) > 0 {
		p.write("{ ")
		for i, spec := range n.Specifiers {
			if i > 0 {
				p.write(", ")
			}
			spec.Accept(p)
		}
		p.write(" }")
	}
	p.write(" from ")
	n.Module.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitImportSpecifier(n *ast.ImportSpecifier) {
	p.write(n.Imported.Value)
	if n.Local != nil && n.Local.Value != n.Imported.Value {
		p.write(" as " + n.Local.Value)
	}
}

func (p *CodePrinter) VisitExportDeclaration(n *ast.ExportDeclaration) {
	p.write("export { ")
	for i, spec := range n.Specifiers {
		if i > 0 {
			p.write(", ")
		}
		spec.Accept(p)
	}
	p.write(" }")
	if n.Module != nil {
		p.write(" from ")
		n.Module.Accept(p)
	}
	p.write(";")
}

func (p *CodePrinter) VisitExportSpecifier(n *ast.ExportSpecifier) {
	p.write(n.Local.Value)
	if n.Exported != nil && n.Exported.Value != n.Local.Value {
		p.write(" as " + n.Exported.Value)
	}
}

func (p *CodePrinter) VisitFunctionDeclaration(n *ast.FunctionDeclaration) {
	p.printAnnotationsBlock(n.Annotations)
	if n.Exported {
		p.write("export ")
	}
	p.write("function ")
	n.Name.Accept(p)
	p.printSignature(&n.Signature, false)
	p.printOptionalBody(n.Body)
}

func (p *CodePrinter) VisitClassDeclaration(n *ast.ClassDeclaration) {
	p.printAnnotationsBlock(n.Annotations)
	if n.Exported {
		p.write("export ")
	}
	p.write("class ")
	n.Name.Accept(p)
	p.printTypeParams(n.TypeParams)
	if n.Extends != nil {
		p.write(" extends ")
		n.Extends.Accept(p)
	}
	for i, impl := range n.Implements {
		if i == 0 {
			p.write(" implements ")
		} else {
			p.write(", ")
		}
		impl.Accept(p)
	}
	p.write(" {")
	p.indent++
	for _, m := range n.Members {
		p.writeln()
		p.writeIndent()
		m.Accept(p)
	}
	p.indent--
	p.writeln()
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printModifiers(static, readonly bool) {
	if static {
		p.write("static ")
	}
	if readonly {
		p.write("readonly ")
	}
}

func (p *CodePrinter) VisitPropertyDeclaration(n *ast.PropertyDeclaration) {
	p.printAnnotationsBlock(n.Annotations)
	p.printModifiers(n.Static, n.Readonly)
	n.Name.Accept(p)
	if n.Optional {
		p.write("?")
	}
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Initializer != nil {
		p.write(" = ")
		p.printExpr(n.Initializer, precAssign, true)
	}
	p.write(";")
}

func (p *CodePrinter) VisitMethodDeclaration(n *ast.MethodDeclaration) {
	p.printAnnotationsBlock(n.Annotations)
	p.printModifiers(n.Static, false)
	n.Name.Accept(p)
	p.printSignature(&n.Signature, false)
	p.printOptionalBody(n.Body)
}

func (p *CodePrinter) VisitConstructor(n *ast.Constructor) {
	p.printAnnotationsBlock(n.Annotations)
	p.write("constructor")
	p.printSignature(&n.Signature, false)
	p.printOptionalBody(n.Body)
}

func (p *CodePrinter) VisitGetAccessor(n *ast.GetAccessor) {
	p.printAnnotationsBlock(n.Annotations)
	p.printModifiers(n.Static, false)
	p.write("get ")
	n.Name.Accept(p)
	p.printSignature(&n.Signature, false)
	p.printOptionalBody(n.Body)
}

func (p *CodePrinter) VisitSetAccessor(n *ast.SetAccessor) {
	p.printAnnotationsBlock(n.Annotations)
	p.printModifiers(n.Static, false)
	p.write("set ")
	n.Name.Accept(p)
	p.printSignature(&n.Signature, false)
	p.printOptionalBody(n.Body)
}

func (p *CodePrinter) VisitInterfaceDeclaration(n *ast.InterfaceDeclaration) {
	p.printAnnotationsBlock(n.Annotations)
	if n.Exported {
		p.write("export ")
	}
	p.write("interface ")
	n.Name.Accept(p)
	p.printTypeParams(n.TypeParams)
	for i, ext := range n.Extends {
		if i == 0 {
			p.write(" extends ")
		} else {
			p.write(", ")
		}
		ext.Accept(p)
	}
	p.write(" {")
	p.indent++
	for _, m := range n.Members {
		p.writeln()
		p.writeIndent()
		m.Accept(p)
		p.write(";")
	}
	p.indent--
	p.writeln()
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitPropertySignature(n *ast.PropertySignature) {
	p.printAnnotationsInline(n.Annotations)
	if n.Readonly {
		p.write("readonly ")
	}
	n.Name.Accept(p)
	if n.Optional {
		p.write("?")
	}
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
}

func (p *CodePrinter) VisitMethodSignature(n *ast.MethodSignature) {
	p.printAnnotationsInline(n.Annotations)
	n.Name.Accept(p)
	if n.Optional {
		p.write("?")
	}
	p.printSignature(&n.Signature, false)
}

func (p *CodePrinter) VisitTypeAliasDeclaration(n *ast.TypeAliasDeclaration) {
	if n.Exported {
		p.write("export ")
	}
	p.write("type ")
	n.Name.Accept(p)
	p.printTypeParams(n.TypeParams)
	p.write(" = ")
	n.Type.Accept(p)
	p.write(";")
}

func (p *CodePrinter) VisitVariableStatement(n *ast.VariableStatement) {
	p.printAnnotationsBlock(n.List.Annotations)
	if n.Exported {
		p.write("export ")
	}
	p.printDeclarationList(n.List)
	p.write(";")
}

// VisitVariableDeclarationList prints a list outside a variable statement,
// i.e. in a for header, with its annotations inline.
func (p *CodePrinter) VisitVariableDeclarationList(n *ast.VariableDeclarationList) {
	p.printAnnotationsInline(n.Annotations)
	p.printDeclarationList(n)
}

func (p *CodePrinter) printDeclarationList(n *ast.VariableDeclarationList) {
	p.write(n.Kind + " ")
	for i, d := range n.Declarations {
		if i > 0 {
			p.write(", ")
		}
		d.Accept(p)
	}
}

func (p *CodePrinter) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	n.Name.Accept(p)
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Initializer != nil {
		p.write(" = ")
		p.printExpr(n.Initializer, precAssign, true)
	}
}

// --- statements ---

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, stmt := range n.Statements {
		p.writeln()
		p.writeIndent()
		stmt.Accept(p)
	}
	p.indent--
	p.writeln()
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	switch n.Expression.(type) {
	case *ast.ObjectLiteral, *ast.FunctionExpression:
		p.write("(")
		n.Expression.Accept(p)
		p.write(")")
	default:
		p.printExpr(n.Expression, precLowest, false)
	}
	p.write(";")
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, precLowest, false)
	}
	p.write(";")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if (")
	p.printExpr(n.Condition, precLowest, false)
	p.write(")")
	p.printBody(n.Consequence)
	if n.Alternative == nil {
		return
	}
	if _, ok := n.Consequence.(*ast.BlockStatement); ok {
		p.write(" ")
	} else {
		p.writeln()
		p.writeIndent()
	}
	p.write("else")
	if _, ok := n.Alternative.(*ast.IfStatement); ok {
		p.write(" ")
		n.Alternative.Accept(p)
		return
	}
	p.printBody(n.Alternative)
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while (")
	p.printExpr(n.Condition, precLowest, false)
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	p.write("for (")
	switch init := n.Init.(type) {
	case nil:
	case ast.Expression:
		p.printExpr(init, precLowest, false)
	default:
		init.Accept(p)
	}
	p.write(";")
	if n.Condition != nil {
		p.write(" ")
		p.printExpr(n.Condition, precLowest, false)
	}
	p.write(";")
	if n.Update != nil {
		p.write(" ")
		p.printExpr(n.Update, precLowest, false)
	}
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitForOfStatement(n *ast.ForOfStatement) {
	p.write("for (")
	n.Declaration.Accept(p)
	p.write(" of ")
	p.printExpr(n.Iterable, precAssign, true)
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitThrowStatement(n *ast.ThrowStatement) {
	p.write("throw ")
	p.printExpr(n.Value, precLowest, false)
	p.write(";")
}

func (p *CodePrinter) VisitBreakStatement(n *ast.BreakStatement)       { p.write("break;") }
func (p *CodePrinter) VisitContinueStatement(n *ast.ContinueStatement) { p.write("continue;") }
func (p *CodePrinter) VisitEmptyStatement(n *ast.EmptyStatement)       { p.write(";") }

// --- expressions ---

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitThisExpression(n *ast.ThisExpression) {
	p.write("this")
}

func (p *CodePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	if n.Raw != "" {
		p.write(n.Raw)
		return
	}
	p.write(strconv.FormatFloat(n.Value, 'f', -1, 64))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) {
	p.write("null")
}

func (p *CodePrinter) VisitArrayLiteral(n *ast.ArrayLiteral) {
	p.write("[")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el, precAssign, true)
	}
	p.write("]")
}

func (p *CodePrinter) VisitObjectLiteral(n *ast.ObjectLiteral) {
	if len(n.Properties) == 0 {
		p.write("{}")
		return
	}
	p.write("{ ")
	for i, prop := range n.Properties {
		if i > 0 {
			p.write(", ")
		}
		prop.Accept(p)
	}
	p.write(" }")
}

func (p *CodePrinter) VisitPropertyAssignment(n *ast.PropertyAssignment) {
	n.Key.Accept(p)
	p.write(": ")
	p.printExpr(n.Value, precAssign, true)
}

func (p *CodePrinter) VisitShorthandPropertyAssignment(n *ast.ShorthandPropertyAssignment) {
	n.Name.Accept(p)
}

func (p *CodePrinter) VisitSpreadElement(n *ast.SpreadElement) {
	p.write("...")
	p.printExpr(n.Argument, precAssign, true)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Callee, precCall, false)
	if n.Optional {
		p.write("?.")
	}
	p.printTypeArgs(n.TypeArgs)
	p.printArguments(n.Arguments)
}

func (p *CodePrinter) VisitNewExpression(n *ast.NewExpression) {
	p.write("new ")
	p.printExpr(n.Callee, precCall, false)
	p.printTypeArgs(n.TypeArgs)
	p.printArguments(n.Arguments)
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printExpr(n.Object, precCall, false)
	if _, ok := n.Object.(*ast.NumberLiteral); ok {
		p.write(" ")
	}
	if n.Optional {
		p.write("?.")
	} else {
		p.write(".")
	}
	p.write(n.Property.Value)
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printExpr(n.Object, precCall, false)
	p.write("[")
	p.printExpr(n.Index, precLowest, false)
	p.write("]")
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator)
	if isWordOperator(n.Operator) {
		p.write(" ")
	} else if inner, ok := n.Operand.(*ast.PrefixExpression); ok && strings.HasPrefix(inner.Operator, n.Operator[:1]) {
		// avoid - -x turning into --x
		p.write(" ")
	}
	p.printExpr(n.Operand, precPrefix, false)
}

func isWordOperator(op string) bool {
	return op == "typeof" || op == "void"
}

func (p *CodePrinter) VisitPostfixExpression(n *ast.PostfixExpression) {
	p.printExpr(n.Operand, precPostfix, false)
	p.write(n.Operator)
}

func (p *CodePrinter) VisitBinaryExpression(n *ast.BinaryExpression) {
	prec := precedenceOf(n)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitConditionalExpression(n *ast.ConditionalExpression) {
	p.printExpr(n.Condition, precConditional+1, false)
	p.write(" ? ")
	p.printExpr(n.WhenTrue, precAssign, true)
	p.write(" : ")
	p.printExpr(n.WhenFalse, precAssign, true)
}

func (p *CodePrinter) VisitParenthesizedExpression(n *ast.ParenthesizedExpression) {
	p.write("(")
	p.printExpr(n.Expression, precLowest, false)
	p.write(")")
}

func (p *CodePrinter) VisitArrowFunction(n *ast.ArrowFunction) {
	p.printAnnotationsInline(n.Annotations)
	p.printSignature(&n.Signature, false)
	p.write(" => ")
	switch body := n.Body.(type) {
	case *ast.BlockStatement:
		body.Accept(p)
	case *ast.ObjectLiteral:
		p.write("(")
		body.Accept(p)
		p.write(")")
	case ast.Expression:
		p.printExpr(body, precAssign, true)
	}
}

func (p *CodePrinter) VisitFunctionExpression(n *ast.FunctionExpression) {
	p.printAnnotationsInline(n.Annotations)
	p.write("function")
	if n.Name != nil {
		p.write(" ")
		n.Name.Accept(p)
	}
	p.printSignature(&n.Signature, false)
	p.write(" ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitCachedReturnMarker(n *ast.CachedReturnMarker) {
	if n.Inner != nil {
		p.printExpr(n.Inner, precLowest, false)
	}
}

// --- types ---

func (p *CodePrinter) VisitTypeReference(n *ast.TypeReference) {
	n.Name.Accept(p)
	p.printTypeArgs(n.TypeArgs)
}

func (p *CodePrinter) VisitFunctionType(n *ast.FunctionType) {
	p.printSignature(&n.Signature, true)
}

func (p *CodePrinter) VisitUnionType(n *ast.UnionType) {
	for i, t := range n.Types {
		if i > 0 {
			p.write(" | ")
		}
		p.printTypeOperand(t)
	}
}

// printTypeOperand wraps function types appearing inside unions and arrays.
func (p *CodePrinter) printTypeOperand(t ast.Type) {
	switch t.(type) {
	case *ast.FunctionType, *ast.UnionType:
		p.write("(")
		t.Accept(p)
		p.write(")")
	default:
		t.Accept(p)
	}
}

func (p *CodePrinter) VisitParenthesizedType(n *ast.ParenthesizedType) {
	p.write("(")
	n.Type.Accept(p)
	p.write(")")
}

func (p *CodePrinter) VisitArrayType(n *ast.ArrayType) {
	p.printTypeOperand(n.Element)
	p.write("[]")
}

func (p *CodePrinter) VisitKeywordType(n *ast.KeywordType) {
	p.write(n.Keyword)
}

func (p *CodePrinter) VisitLiteralType(n *ast.LiteralType) {
	n.Literal.Accept(p)
}

func (p *CodePrinter) VisitTypeLiteral(n *ast.TypeLiteral) {
	if len(n.Members) == 0 {
		p.write("{}")
		return
	}
	p.write("{ ")
	for i, m := range n.Members {
		if i > 0 {
			p.write("; ")
		}
		m.Accept(p)
	}
	p.write(" }")
}

func (p *CodePrinter) VisitTypeParameter(n *ast.TypeParameter) {
	n.Name.Accept(p)
	if n.Constraint != nil {
		p.write(" extends ")
		n.Constraint.Accept(p)
	}
	if n.Default != nil {
		p.write(" = ")
		n.Default.Accept(p)
	}
}
