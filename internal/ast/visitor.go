package ast

// Visitor has one method per concrete node type. Accept dispatches to it.
type Visitor interface {
	VisitProgram(*Program)
	VisitAnnotation(*Annotation)
	VisitIdentifier(*Identifier)
	VisitThisExpression(*ThisExpression)
	VisitNumberLiteral(*NumberLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitNullLiteral(*NullLiteral)

	VisitParameter(*Parameter)
	VisitImportDeclaration(*ImportDeclaration)
	VisitImportSpecifier(*ImportSpecifier)
	VisitExportDeclaration(*ExportDeclaration)
	VisitExportSpecifier(*ExportSpecifier)
	VisitFunctionDeclaration(*FunctionDeclaration)
	VisitClassDeclaration(*ClassDeclaration)
	VisitPropertyDeclaration(*PropertyDeclaration)
	VisitMethodDeclaration(*MethodDeclaration)
	VisitConstructor(*Constructor)
	VisitGetAccessor(*GetAccessor)
	VisitSetAccessor(*SetAccessor)
	VisitInterfaceDeclaration(*InterfaceDeclaration)
	VisitPropertySignature(*PropertySignature)
	VisitMethodSignature(*MethodSignature)
	VisitTypeAliasDeclaration(*TypeAliasDeclaration)
	VisitVariableStatement(*VariableStatement)
	VisitVariableDeclarationList(*VariableDeclarationList)
	VisitVariableDeclaration(*VariableDeclaration)

	VisitBlockStatement(*BlockStatement)
	VisitExpressionStatement(*ExpressionStatement)
	VisitReturnStatement(*ReturnStatement)
	VisitIfStatement(*IfStatement)
	VisitWhileStatement(*WhileStatement)
	VisitForStatement(*ForStatement)
	VisitForOfStatement(*ForOfStatement)
	VisitThrowStatement(*ThrowStatement)
	VisitBreakStatement(*BreakStatement)
	VisitContinueStatement(*ContinueStatement)
	VisitEmptyStatement(*EmptyStatement)

	VisitArrayLiteral(*ArrayLiteral)
	VisitObjectLiteral(*ObjectLiteral)
	VisitPropertyAssignment(*PropertyAssignment)
	VisitShorthandPropertyAssignment(*ShorthandPropertyAssignment)
	VisitSpreadElement(*SpreadElement)
	VisitCallExpression(*CallExpression)
	VisitNewExpression(*NewExpression)
	VisitMemberExpression(*MemberExpression)
	VisitIndexExpression(*IndexExpression)
	VisitPrefixExpression(*PrefixExpression)
	VisitPostfixExpression(*PostfixExpression)
	VisitBinaryExpression(*BinaryExpression)
	VisitConditionalExpression(*ConditionalExpression)
	VisitParenthesizedExpression(*ParenthesizedExpression)
	VisitArrowFunction(*ArrowFunction)
	VisitFunctionExpression(*FunctionExpression)
	VisitCachedReturnMarker(*CachedReturnMarker)

	VisitTypeReference(*TypeReference)
	VisitFunctionType(*FunctionType)
	VisitUnionType(*UnionType)
	VisitParenthesizedType(*ParenthesizedType)
	VisitArrayType(*ArrayType)
	VisitKeywordType(*KeywordType)
	VisitLiteralType(*LiteralType)
	VisitTypeLiteral(*TypeLiteral)
	VisitTypeParameter(*TypeParameter)
}
